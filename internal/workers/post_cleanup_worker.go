package workers

import (
	"context"
	"database/sql"
	"log"
	"time"
)

// PostCleanupWorker prunes scheduled posts that reached a terminal state
// (published or cancelled) longer ago than the retention period. Failed posts
// are kept for inspection.
type PostCleanupWorker struct {
	DB            *sql.DB
	RetentionDays int           // How long to keep terminal posts (default: 30)
	CheckInterval time.Duration // How often to run cleanup (default: 6h)
}

// Start begins the post cleanup worker loop.
func (w *PostCleanupWorker) Start(ctx context.Context) {
	if w.RetentionDays <= 0 {
		w.RetentionDays = 30
	}
	if w.CheckInterval <= 0 {
		w.CheckInterval = 6 * time.Hour
	}

	ticker := time.NewTicker(w.CheckInterval)
	defer ticker.Stop()

	log.Printf("[PostCleanup] started (retention=%dd, interval=%s)", w.RetentionDays, w.CheckInterval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[PostCleanup] stopped")
			return
		case <-ticker.C:
			w.cleanup(ctx)
		}
	}
}

func (w *PostCleanupWorker) cleanup(ctx context.Context) {
	cutoffTime := time.Now().AddDate(0, 0, -w.RetentionDays)

	result, err := w.DB.ExecContext(ctx, `
		DELETE FROM public.scheduled_posts
		WHERE status IN ('published', 'cancelled')
		AND updated_at < $1
	`, cutoffTime)

	if err != nil {
		log.Printf("[PostCleanup] error: %v", err)
		return
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		log.Printf("[PostCleanup] error getting rows affected: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("[PostCleanup] deleted %d terminal posts", deleted)
	}
}
