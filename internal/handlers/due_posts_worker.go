package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"
)

// processDuePostsOnce claims due scheduled posts and announces them to the
// external publisher over the realtime channel.
//
// Claiming stamps scheduled_posts.delivery_job_id so concurrent instances
// never announce the same post twice. The limiter bounds how fast claims are
// emitted so a large backlog doesn't flood listeners in one sweep.
func (h *Handler) processDuePostsOnce(ctx context.Context, limit int, limiter *rate.Limiter) (int, error) {
	if h == nil || h.db == nil {
		return 0, nil
	}
	if limit <= 0 {
		limit = 25
	}

	jobID := fmt.Sprintf("dlv_%s", randHex(12))
	claimed, err := h.store.ClaimDuePosts(ctx, limit, jobID)
	if err != nil {
		return 0, err
	}

	for _, p := range claimed {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return len(claimed), err
			}
		}
		log.Printf("[DuePosts] claimed postId=%s platform=%s scheduledTime=%s jobId=%s",
			p.ID, p.Platform, p.ScheduledTime.UTC().Format(time.RFC3339), jobID)
		h.emitEvent(realtimeEvent{
			Type:     "post.due",
			PostID:   p.ID,
			JobID:    jobID,
			Platform: p.Platform,
			Status:   p.Status,
		})
	}

	return len(claimed), nil
}

// StartDuePostsWorker runs a periodic poller that claims scheduled posts whose
// time has come and hands them to the external publisher. Wire it from `main`
// behind an env gate.
func (h *Handler) StartDuePostsWorker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	log.Printf("[DuePosts] worker started interval=%s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// At most 5 announcements per second per sweep, bursting one at a time.
	limiter := rate.NewLimiter(rate.Limit(5), 1)

	run := func() {
		backoffs := []time.Duration{700 * time.Millisecond, 1500 * time.Millisecond, 3 * time.Second}
		var n int
		var err error
		for attempt := 0; attempt < len(backoffs)+1; attempt++ {
			sweepCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
			n, err = h.processDuePostsOnce(sweepCtx, 25, limiter)
			cancel()
			if err == nil {
				break
			}
			if attempt < len(backoffs) {
				log.Printf("[DuePosts] sweep error attempt=%d/%d err=%v", attempt+1, len(backoffs)+1, err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(backoffs[attempt]):
				}
				continue
			}
		}
		if err != nil {
			log.Printf("[DuePosts] sweep error final err=%v", err)
			return
		}
		if n > 0 {
			log.Printf("[DuePosts] claimed=%d", n)
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[DuePosts] worker stopped err=%v", ctx.Err())
			return
		case <-ticker.C:
			run()
		}
	}
}
