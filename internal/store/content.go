package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const contentColumns = `id, title, base_content, content_type, platforms, tag_ids, asset_ids, hashtags, usage_count, status, created_at, updated_at`

// ContentFilters narrows ListContent. Zero values mean "no filter".
type ContentFilters struct {
	IDs    []string
	Status string
	Types  []string
}

func (s *Store) ListContent(ctx context.Context, f ContentFilters) ([]models.ContentItem, error) {
	where := []string{}
	args := []interface{}{}
	if len(f.IDs) > 0 {
		args = append(args, pq.Array(f.IDs))
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(f.Types) > 0 {
		args = append(args, pq.Array(f.Types))
		where = append(where, fmt.Sprintf("content_type = ANY($%d)", len(args)))
	}

	query := `SELECT ` + contentColumns + ` FROM public.content_library`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		var c models.ContentItem
		if err := rows.Scan(&c.ID, &c.Title, &c.BaseContent, &c.ContentType,
			pq.Array(&c.Platforms), pq.Array(&c.TagIDs), pq.Array(&c.AssetIDs), pq.Array(&c.Hashtags),
			&c.UsageCount, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *Store) CreateContent(ctx context.Context, c models.ContentItem) (models.ContentItem, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = models.ContentStatusActive
	}
	query := `
		INSERT INTO public.content_library (id, title, base_content, content_type, platforms, tag_ids, asset_ids, hashtags, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING ` + contentColumns
	err := s.db.QueryRowContext(ctx, query, c.ID, c.Title, c.BaseContent, c.ContentType,
		pq.Array(c.Platforms), pq.Array(c.TagIDs), pq.Array(c.AssetIDs), pq.Array(c.Hashtags), c.Status).
		Scan(&c.ID, &c.Title, &c.BaseContent, &c.ContentType,
			pq.Array(&c.Platforms), pq.Array(&c.TagIDs), pq.Array(&c.AssetIDs), pq.Array(&c.Hashtags),
			&c.UsageCount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) GetContent(ctx context.Context, id string) (models.ContentItem, error) {
	var c models.ContentItem
	query := `SELECT ` + contentColumns + ` FROM public.content_library WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Title, &c.BaseContent, &c.ContentType,
		pq.Array(&c.Platforms), pq.Array(&c.TagIDs), pq.Array(&c.AssetIDs), pq.Array(&c.Hashtags),
		&c.UsageCount, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// IncrementContentUsage bumps the monotonic usage counter by one.
func (s *Store) IncrementContentUsage(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE public.content_library
		   SET usage_count = usage_count + 1,
		       updated_at = NOW()
		 WHERE id = $1
	`, id)
	return err
}
