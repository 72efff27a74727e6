package store

import (
	"context"
	"database/sql"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const postColumns = `id, content_id, account_id, platform, caption, hashtags, asset_ids, scheduled_time, timezone, status, delivery_job_id, last_error, created_at, updated_at`

func scanPost(row interface{ Scan(...interface{}) error }) (models.ScheduledPost, error) {
	var p models.ScheduledPost
	err := row.Scan(&p.ID, &p.ContentID, &p.AccountID, &p.Platform, &p.Caption,
		pq.Array(&p.Hashtags), pq.Array(&p.AssetIDs), &p.ScheduledTime, &p.Timezone,
		&p.Status, &p.DeliveryJobID, &p.LastError, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) CreateScheduledPost(ctx context.Context, p models.ScheduledPost) (models.ScheduledPost, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	query := `
		INSERT INTO public.scheduled_posts (id, content_id, account_id, platform, caption, hashtags, asset_ids, scheduled_time, timezone, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING ` + postColumns
	return scanPost(s.db.QueryRowContext(ctx, query,
		p.ID, p.ContentID, p.AccountID, p.Platform, p.Caption,
		pq.Array(p.Hashtags), pq.Array(p.AssetIDs), p.ScheduledTime, p.Timezone, p.Status))
}

func (s *Store) GetScheduledPost(ctx context.Context, id string) (models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM public.scheduled_posts WHERE id = $1`
	return scanPost(s.db.QueryRowContext(ctx, query, id))
}

// ClaimDuePosts atomically stamps up to limit due scheduled posts with the
// given delivery job id and returns them. The delivery_job_id IS NULL guard
// keeps concurrent instances from claiming the same post twice.
func (s *Store) ClaimDuePosts(ctx context.Context, limit int, jobID string) ([]models.ScheduledPost, error) {
	query := `
		UPDATE public.scheduled_posts
		   SET delivery_job_id = $1,
		       updated_at = NOW()
		 WHERE id IN (
		       SELECT id
		         FROM public.scheduled_posts
		        WHERE status = 'scheduled'
		          AND scheduled_time <= NOW()
		          AND delivery_job_id IS NULL
		        ORDER BY scheduled_time ASC
		        LIMIT $2
		 )
		RETURNING ` + postColumns
	rows, err := s.db.QueryContext(ctx, query, jobID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.ScheduledPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// ListDuePosts returns claimed posts awaiting pickup by the external publisher.
func (s *Store) ListDuePosts(ctx context.Context) ([]models.ScheduledPost, error) {
	query := `
		SELECT ` + postColumns + `
		  FROM public.scheduled_posts
		 WHERE status = 'scheduled'
		   AND delivery_job_id IS NOT NULL
		 ORDER BY scheduled_time ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.ScheduledPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// UpdatePostStatus applies the external publisher's terminal transition. Only
// posts currently in the scheduled state can move; anything else reports
// ErrInvalidTransition (or sql.ErrNoRows when the id is unknown). The update
// and the existence check run in one statement so the report cannot race a
// concurrent delete or transition.
func (s *Store) UpdatePostStatus(ctx context.Context, id, status string, lastError *string) (models.ScheduledPost, error) {
	query := `
		WITH updated AS (
			UPDATE public.scheduled_posts
			   SET status = $2,
			       last_error = $3,
			       updated_at = NOW()
			 WHERE id = $1
			   AND status = 'scheduled'
			RETURNING ` + postColumns + `
		)
		SELECT ` + postColumns + `, TRUE AS applied FROM updated
		UNION ALL
		SELECT ` + postColumns + `, FALSE FROM public.scheduled_posts
		 WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM updated)`
	row := s.db.QueryRowContext(ctx, query, id, status, lastError)

	var p models.ScheduledPost
	var applied bool
	err := row.Scan(&p.ID, &p.ContentID, &p.AccountID, &p.Platform, &p.Caption,
		pq.Array(&p.Hashtags), pq.Array(&p.AssetIDs), &p.ScheduledTime, &p.Timezone,
		&p.Status, &p.DeliveryJobID, &p.LastError, &p.CreatedAt, &p.UpdatedAt, &applied)
	if err == sql.ErrNoRows {
		return models.ScheduledPost{}, sql.ErrNoRows
	}
	if err != nil {
		return models.ScheduledPost{}, err
	}
	if !applied {
		return models.ScheduledPost{}, ErrInvalidTransition
	}
	return p, nil
}
