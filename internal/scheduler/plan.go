package scheduler

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/chihoangvnn/sunfoods-sub005/internal/platform"
)

// Request is one automation run: distribute N posts across M accounts over a
// date range. It exists only for the duration of the call.
type Request struct {
	Platform      string
	NumberOfPosts int
	NumberOfPages int
	StartDate     time.Time
	EndDate       time.Time
	ContentTypes  []string
	SelectedTags  []string
}

// TimeSettings configures bulk distribution timing.
type TimeSettings struct {
	ScheduledTime  *time.Time
	Timezone       string
	StaggerMinutes int
}

// BulkRequest is one explicit content×accounts distribution call.
type BulkRequest struct {
	ContentIDs       []string
	TargetAccounts   []string
	SchedulingMode   string
	DistributionType string
	TimeSettings     TimeSettings
	TagFilters       []string
	AntiSpam         AntiSpam
}

// Plan is the fully computed, not yet persisted batch.
type Plan struct {
	Posts            []models.ScheduledPost
	Accounts         []models.SocialAccount
	ContentAvailable int
}

// Preview is the dry-run summary for a Request. Computing it never writes.
type Preview struct {
	Accounts         []models.SocialAccount
	ContentAvailable int
	TotalPosts       int
	TotalDays        int
	PostsPerDay      int
	PostsPerAccount  int
}

// Engine computes distribution plans. The whole plan is built in memory before
// any persistence happens; Now and Rand are injected for deterministic tests.
type Engine struct {
	Now  func() time.Time
	Rand *rand.Rand
}

func NewEngine() *Engine {
	return &Engine{
		Now:  time.Now,
		Rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// eligible runs the shared pre-validation: target-platform account filtering,
// page limiting, and tag/type/platform content filtering. It fails with
// NoMatchError before anything is written.
func (e *Engine) eligible(req Request, content []models.ContentItem, accounts []models.SocialAccount) ([]models.SocialAccount, []models.ContentItem, error) {
	eligibleAccounts := FilterAccountsByTarget(accounts, req.Platform)
	if len(eligibleAccounts) == 0 {
		return nil, nil, &NoMatchError{Reason: fmt.Sprintf("no accounts found for platform: %s", req.Platform)}
	}
	if req.NumberOfPages > 0 && req.NumberOfPages < len(eligibleAccounts) {
		eligibleAccounts = eligibleAccounts[:req.NumberOfPages]
	}

	pool := FilterContentByTags(content, req.SelectedTags)
	pool = FilterContentByTypes(pool, req.ContentTypes)
	if req.Platform != platform.TargetAll {
		if v, ok := platform.ParseVariant(req.Platform); ok {
			pool = FilterContentByPlatform(pool, v)
		}
	}
	if len(pool) == 0 {
		return nil, nil, &NoMatchError{Reason: fmt.Sprintf("no content found matching the criteria for platform: %s", req.Platform)}
	}
	return eligibleAccounts, pool, nil
}

// PlanAutomation builds the slot-grid batch for POST /api/automation/simple.
//
// Each post index i picks slot[i], the round-robin account for i, and the next
// cursor-compatible content item. The content cursor is threaded explicitly
// across the loop; there is no hidden shared state.
func (e *Engine) PlanAutomation(req Request, content []models.ContentItem, accounts []models.SocialAccount) (Plan, error) {
	eligibleAccounts, pool, err := e.eligible(req, content, accounts)
	if err != nil {
		return Plan{}, err
	}

	asm := &Assembler{Now: e.Now, Rand: e.Rand}
	slots := PlanSlots(req.StartDate, req.EndDate, req.NumberOfPosts)

	posts := make([]models.ScheduledPost, 0, len(slots))
	cursor := 0
	for i, slot := range slots {
		account := PickAccount(eligibleAccounts, i)
		item, next, ok := NextContent(pool, account, cursor)
		if !ok {
			continue
		}
		cursor = next
		posts = append(posts, asm.Assemble(item, account, slot, i%len(eligibleAccounts), models.PostStatusScheduled, AntiSpam{}))
	}

	return Plan{Posts: posts, Accounts: eligibleAccounts, ContentAvailable: len(pool)}, nil
}

// PlanPreview runs the filtering and distribution math for the preview
// endpoint without assembling or persisting anything.
func (e *Engine) PlanPreview(req Request, content []models.ContentItem, accounts []models.SocialAccount) (Preview, error) {
	eligibleAccounts, pool, err := e.eligible(req, content, accounts)
	if err != nil {
		return Preview{}, err
	}

	days := int(req.EndDate.Sub(req.StartDate).Hours() / 24)
	if req.EndDate.Sub(req.StartDate) > time.Duration(days)*24*time.Hour {
		days++
	}
	if days < 1 {
		days = 1
	}

	return Preview{
		Accounts:         eligibleAccounts,
		ContentAvailable: len(pool),
		TotalPosts:       req.NumberOfPosts,
		TotalDays:        days,
		PostsPerDay:      ceilDiv(req.NumberOfPosts, days),
		PostsPerAccount:  ceilDiv(req.NumberOfPosts, len(eligibleAccounts)),
	}, nil
}

// PlanBulk builds the content×accounts cross-product batch for
// POST /api/posts/schedule. Only the "bulk" distribution type exists; callers
// are expected to have validated ids against storage already.
func (e *Engine) PlanBulk(req BulkRequest, content []models.ContentItem, accounts []models.SocialAccount) (Plan, error) {
	if req.DistributionType != "bulk" {
		return Plan{}, &UnsupportedFeatureError{Feature: req.DistributionType}
	}

	if req.AntiSpam.SkipInactiveAccounts {
		accounts = FilterActiveConnected(accounts)
	}
	if len(accounts) == 0 {
		reason := "no accounts found with provided ids"
		if req.AntiSpam.SkipInactiveAccounts {
			reason = "no active and connected accounts found"
		}
		return Plan{}, &NoMatchError{Reason: reason}
	}

	pool := FilterContentByTags(content, req.TagFilters)
	if len(pool) == 0 {
		return Plan{}, &NoMatchError{Reason: "no content found matching the requested tags"}
	}

	baseTime := e.Now().Add(time.Minute)
	if req.TimeSettings.ScheduledTime != nil {
		baseTime = *req.TimeSettings.ScheduledTime
	}
	spam := req.AntiSpam
	spam.StaggerMinutes = req.TimeSettings.StaggerMinutes
	if spam.StaggerMinutes <= 0 {
		spam.StaggerMinutes = 5
	}
	asm := &Assembler{Now: e.Now, Rand: e.Rand, Timezone: req.TimeSettings.Timezone}

	posts := make([]models.ScheduledPost, 0, len(pool)*len(accounts))
	for _, item := range pool {
		for j, account := range accounts {
			v, ok := platform.ParseVariant(account.Platform)
			if !ok {
				continue
			}
			// Respect the content's own platform allow-list and the
			// per-platform content-type rules.
			if len(item.Platforms) > 0 && !containsString(item.Platforms, account.Platform) {
				continue
			}
			if !v.Accepts(item) {
				continue
			}
			posts = append(posts, asm.Assemble(item, account, baseTime, j, req.SchedulingMode, spam))
		}
	}

	return Plan{Posts: posts, Accounts: accounts, ContentAvailable: len(pool)}, nil
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
