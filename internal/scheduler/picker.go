package scheduler

import (
	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/chihoangvnn/sunfoods-sub005/internal/platform"
)

// PickAccount round-robins through the eligible set using the global 0-based
// post index, so over any prefix of the batch the per-account assignment
// counts differ by at most one.
func PickAccount(eligible []models.SocialAccount, postIndex int) models.SocialAccount {
	return eligible[postIndex%len(eligible)]
}

// NextContent resolves the content item for one (account, slot) assignment.
//
// The cursor is explicit state threaded through the whole batch: starting at
// its position the pool is scanned once with wrap-around for an item that is
// publishable on the account's platform and whose tags intersect the
// account's tags (untagged items always match). If no tag match exists within
// one pass, it falls back to the first platform-compatible item from the
// cursor, so sparse tag coverage never starves an assignment. The cursor
// advances by at least one position per pick so consecutive assignments
// rotate through the pool instead of repeating one item.
//
// ok is false only when nothing in the pool is compatible with the account's
// platform; no post should be produced for that assignment.
func NextContent(pool []models.ContentItem, account models.SocialAccount, cursor int) (item models.ContentItem, next int, ok bool) {
	if len(pool) == 0 {
		return models.ContentItem{}, cursor, false
	}
	v, known := platform.ParseVariant(account.Platform)
	if !known {
		return models.ContentItem{}, cursor, false
	}

	// First pass: platform compatibility plus tag affinity.
	for i := 0; i < len(pool); i++ {
		idx := (cursor + i) % len(pool)
		c := pool[idx]
		if !v.Accepts(c) {
			continue
		}
		if len(account.TagIDs) == 0 || len(c.TagIDs) == 0 || tagsIntersect(account.TagIDs, c.TagIDs) {
			return c, (idx + 1) % len(pool), true
		}
	}

	// Fallback: first available item that the platform accepts, tags ignored.
	for i := 0; i < len(pool); i++ {
		idx := (cursor + i) % len(pool)
		if v.Accepts(pool[idx]) {
			return pool[idx], (idx + 1) % len(pool), true
		}
	}

	return models.ContentItem{}, cursor, false
}
