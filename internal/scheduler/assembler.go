package scheduler

import (
	"math/rand"
	"time"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/chihoangvnn/sunfoods-sub005/internal/platform"
)

// DefaultTimezone is applied when a request does not name one.
const DefaultTimezone = "Asia/Ho_Chi_Minh"

// MinLeadTime is the floor applied when stagger/jitter math would schedule a
// post in the past (e.g. a same-day slot whose hour already went by): the post
// is clamped to now + MinLeadTime instead of being scheduled retroactively.
const MinLeadTime = time.Minute

// AntiSpam carries the request's anti-detection settings.
type AntiSpam struct {
	JitterEnabled        bool `json:"enableJitter"`
	JitterMinutes        int  `json:"jitterMinutes"`
	StaggerMinutes       int  `json:"staggerMinutes"`
	SkipInactiveAccounts bool `json:"skipInactiveAccounts"`
}

// Assembler normalizes (content, account, timestamp) triples into canonical
// scheduled-post records. Now and Rand are injected so batch output is
// reproducible in tests.
type Assembler struct {
	Now      func() time.Time
	Rand     *rand.Rand
	Timezone string
}

// Assemble builds one scheduled post.
//
// The final time is slot + accountIndex*staggerMinutes, plus a uniform random
// jitter in [0, jitterMinutes] when enabled. Jitter is strictly additive: a
// post can only move later than its stagger-adjusted base, never earlier.
func (a *Assembler) Assemble(content models.ContentItem, account models.SocialAccount, slot time.Time, accountIndex int, mode string, spam AntiSpam) models.ScheduledPost {
	v, _ := platform.ParseVariant(account.Platform)

	at := slot.Add(time.Duration(accountIndex*spam.StaggerMinutes) * time.Minute)
	if spam.JitterEnabled && spam.JitterMinutes > 0 {
		at = at.Add(time.Duration(a.Rand.Float64() * float64(spam.JitterMinutes) * float64(time.Minute)))
	}
	if floor := a.Now().Add(MinLeadTime); at.Before(floor) {
		at = floor
	}

	caption := content.BaseContent
	if caption == "" {
		caption = content.Title
	}
	tz := a.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}

	return models.ScheduledPost{
		ContentID:     content.ID,
		AccountID:     account.ID,
		Platform:      string(v.Canonical()),
		Caption:       caption,
		Hashtags:      append([]string(nil), content.Hashtags...),
		AssetIDs:      append([]string(nil), content.AssetIDs...),
		ScheduledTime: at,
		Timezone:      tz,
		Status:        mode,
	}
}
