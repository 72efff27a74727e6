package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const accountColumns = `id, name, platform, tag_ids, is_active, connected, created_at`

// AccountFilters narrows ListAccounts. Zero values mean "no filter".
type AccountFilters struct {
	IDs      []string
	Platform string
}

func (s *Store) ListAccounts(ctx context.Context, f AccountFilters) ([]models.SocialAccount, error) {
	where := []string{}
	args := []interface{}{}
	if len(f.IDs) > 0 {
		args = append(args, pq.Array(f.IDs))
		where = append(where, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	if f.Platform != "" && f.Platform != "all" {
		args = append(args, f.Platform)
		where = append(where, fmt.Sprintf("platform = $%d", len(args)))
	}

	query := `SELECT ` + accountColumns + ` FROM public.social_accounts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.SocialAccount
	for rows.Next() {
		var a models.SocialAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.Platform, pq.Array(&a.TagIDs), &a.IsActive, &a.Connected, &a.CreatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) CreateAccount(ctx context.Context, a models.SocialAccount) (models.SocialAccount, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `
		INSERT INTO public.social_accounts (id, name, platform, tag_ids, is_active, connected, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + accountColumns
	err := s.db.QueryRowContext(ctx, query, a.ID, a.Name, a.Platform, pq.Array(a.TagIDs), a.IsActive, a.Connected).
		Scan(&a.ID, &a.Name, &a.Platform, pq.Array(&a.TagIDs), &a.IsActive, &a.Connected, &a.CreatedAt)
	return a, err
}
