package store

import (
	"context"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/google/uuid"
)

func (s *Store) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM public.tags ORDER BY slug ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CreateTag upserts by slug so repeated imports of the same tag are harmless.
func (s *Store) CreateTag(ctx context.Context, t models.Tag) (models.Tag, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `
		INSERT INTO public.tags (id, name, slug, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, slug, created_at
	`
	err := s.db.QueryRowContext(ctx, query, t.ID, t.Name, t.Slug).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	return t, err
}
