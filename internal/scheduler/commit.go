package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
)

// PostStore is the slice of the persistence layer the committer needs. The
// engine never learns how it is implemented.
type PostStore interface {
	CreateScheduledPost(ctx context.Context, post models.ScheduledPost) (models.ScheduledPost, error)
	IncrementContentUsage(ctx context.Context, contentID string) error
}

// CommitError records one failed persistence attempt.
type CommitError struct {
	ContentID     string    `json:"contentId"`
	AccountID     string    `json:"socialAccountId"`
	ScheduledTime time.Time `json:"scheduledTime"`
	Error         string    `json:"error"`
}

// Summary aggregates a committed batch for the response payload.
type Summary struct {
	ByPlatform map[string]int `json:"byPlatform"`
	ByStatus   map[string]int `json:"byStatus"`
	ByAccount  map[string]int `json:"byAccount"`
}

// CommitResult is the outcome of a best-effort batch commit.
type CommitResult struct {
	Created []models.ScheduledPost
	Errors  []CommitError
	Summary Summary
}

// Commit persists the planned posts one at a time. A failed insert is logged,
// recorded, and skipped; it never aborts the rest of the batch. Afterwards the
// usage counter is incremented once per content item that landed in at least
// one successfully persisted post, keeping counters in step with what was
// actually committed.
func Commit(ctx context.Context, store PostStore, posts []models.ScheduledPost) CommitResult {
	res := CommitResult{
		Created: make([]models.ScheduledPost, 0, len(posts)),
		Errors:  []CommitError{},
		Summary: Summary{
			ByPlatform: map[string]int{},
			ByStatus:   map[string]int{},
			ByAccount:  map[string]int{},
		},
	}

	for _, p := range posts {
		created, err := store.CreateScheduledPost(ctx, p)
		if err != nil {
			log.Printf("[Scheduler] create failed contentId=%s accountId=%s err=%v", p.ContentID, p.AccountID, err)
			res.Errors = append(res.Errors, CommitError{
				ContentID:     p.ContentID,
				AccountID:     p.AccountID,
				ScheduledTime: p.ScheduledTime,
				Error:         err.Error(),
			})
			continue
		}
		res.Created = append(res.Created, created)
		res.Summary.ByPlatform[created.Platform]++
		res.Summary.ByStatus[created.Status]++
		res.Summary.ByAccount[created.AccountID]++
	}

	// Increment in first-use order so repeated runs touch rows deterministically.
	bumped := make(map[string]struct{})
	for _, created := range res.Created {
		if _, done := bumped[created.ContentID]; done {
			continue
		}
		bumped[created.ContentID] = struct{}{}
		if err := store.IncrementContentUsage(ctx, created.ContentID); err != nil {
			log.Printf("[Scheduler] usage increment failed contentId=%s err=%v", created.ContentID, err)
		}
	}

	return res
}
