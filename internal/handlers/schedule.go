package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/chihoangvnn/sunfoods-sub005/internal/scheduler"
	"github.com/chihoangvnn/sunfoods-sub005/internal/store"
)

// schedulePostsRequest is the wire shape of POST /api/posts/schedule.
// Optional sections default the same way the admin UI sends them: stagger 5
// minutes, jitter on at 3 minutes, inactive accounts skipped.
type schedulePostsRequest struct {
	ContentIDs       []string `json:"contentIds"`
	TargetAccounts   []string `json:"targetAccounts"`
	SchedulingMode   string   `json:"schedulingMode"`
	DistributionType string   `json:"distributionType"`
	TimeSettings     *struct {
		ScheduledTime  string `json:"scheduledTime"`
		Timezone       string `json:"timezone"`
		StaggerMinutes int    `json:"staggerMinutes"`
	} `json:"timeSettings,omitempty"`
	TagFilters []string `json:"tagFilters,omitempty"`
	AntiSpam   *struct {
		EnableJitter         *bool `json:"enableJitter"`
		JitterMinutes        *int  `json:"jitterMinutes"`
		SkipInactiveAccounts *bool `json:"skipInactiveAccounts"`
	} `json:"antiSpam,omitempty"`
}

func (s schedulePostsRequest) validate() (scheduler.BulkRequest, error) {
	if len(s.ContentIDs) == 0 {
		return scheduler.BulkRequest{}, &scheduler.ValidationError{Msg: "at least one content item required"}
	}
	if len(s.TargetAccounts) == 0 {
		return scheduler.BulkRequest{}, &scheduler.ValidationError{Msg: "at least one target account required"}
	}

	mode := s.SchedulingMode
	if mode == "" {
		mode = models.PostStatusDraft
	}
	switch mode {
	case models.PostStatusDraft, models.PostStatusPendingApproval, models.PostStatusScheduled:
	default:
		return scheduler.BulkRequest{}, &scheduler.ValidationError{Msg: "schedulingMode must be one of draft, pending_approval, scheduled"}
	}

	dist := s.DistributionType
	if dist == "" {
		dist = "bulk"
	}
	switch dist {
	case "manual", "smart", "bulk":
	default:
		return scheduler.BulkRequest{}, &scheduler.ValidationError{Msg: "distributionType must be one of manual, smart, bulk"}
	}

	req := scheduler.BulkRequest{
		ContentIDs:       s.ContentIDs,
		TargetAccounts:   s.TargetAccounts,
		SchedulingMode:   mode,
		DistributionType: dist,
		TagFilters:       s.TagFilters,
		TimeSettings:     scheduler.TimeSettings{Timezone: scheduler.DefaultTimezone, StaggerMinutes: 5},
		AntiSpam:         scheduler.AntiSpam{JitterEnabled: true, JitterMinutes: 3, SkipInactiveAccounts: true},
	}

	if s.TimeSettings != nil {
		if s.TimeSettings.ScheduledTime != "" {
			at, err := time.Parse(time.RFC3339, s.TimeSettings.ScheduledTime)
			if err != nil {
				return scheduler.BulkRequest{}, &scheduler.ValidationError{Msg: "timeSettings.scheduledTime must be RFC3339"}
			}
			req.TimeSettings.ScheduledTime = &at
		}
		if s.TimeSettings.Timezone != "" {
			req.TimeSettings.Timezone = s.TimeSettings.Timezone
		}
		if s.TimeSettings.StaggerMinutes != 0 {
			if s.TimeSettings.StaggerMinutes < 1 || s.TimeSettings.StaggerMinutes > 60 {
				return scheduler.BulkRequest{}, &scheduler.ValidationError{Msg: "timeSettings.staggerMinutes must be between 1 and 60"}
			}
			req.TimeSettings.StaggerMinutes = s.TimeSettings.StaggerMinutes
		}
	}
	if s.AntiSpam != nil {
		if s.AntiSpam.EnableJitter != nil {
			req.AntiSpam.JitterEnabled = *s.AntiSpam.EnableJitter
		}
		if s.AntiSpam.JitterMinutes != nil {
			if *s.AntiSpam.JitterMinutes < 0 || *s.AntiSpam.JitterMinutes > 30 {
				return scheduler.BulkRequest{}, &scheduler.ValidationError{Msg: "antiSpam.jitterMinutes must be between 0 and 30"}
			}
			req.AntiSpam.JitterMinutes = *s.AntiSpam.JitterMinutes
		}
		if s.AntiSpam.SkipInactiveAccounts != nil {
			req.AntiSpam.SkipInactiveAccounts = *s.AntiSpam.SkipInactiveAccounts
		}
	}

	return req, nil
}

// SchedulePosts distributes the named content items across the named accounts.
// Only bulk distribution exists; manual and smart return 501.
func (h *Handler) SchedulePosts(w http.ResponseWriter, r *http.Request) {
	var body schedulePostsRequest
	if err := decodeJSON(r, &body); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := body.validate()
	if err != nil {
		writeSchedulerError(w, err)
		return
	}
	if req.DistributionType != "bulk" {
		writeSchedulerError(w, &scheduler.UnsupportedFeatureError{Feature: req.DistributionType})
		return
	}

	// Referenced content must exist and be active.
	content, err := h.store.ListContent(r.Context(), store.ContentFilters{IDs: req.ContentIDs, Status: models.ContentStatusActive})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if missing := missingIDs(req.ContentIDs, contentIDs(content)); len(missing) > 0 {
		writeSchedulerError(w, &scheduler.NotFoundError{Kind: "content", IDs: missing})
		return
	}

	// Referenced accounts must exist; active/connected filtering happens in the engine.
	accounts, err := h.store.ListAccounts(r.Context(), store.AccountFilters{IDs: req.TargetAccounts})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if missing := missingIDs(req.TargetAccounts, accountIDs(accounts)); len(missing) > 0 {
		writeSchedulerError(w, &scheduler.NotFoundError{Kind: "account", IDs: missing})
		return
	}

	plan, err := h.engine.PlanBulk(req, content, accounts)
	if err != nil {
		writeSchedulerError(w, err)
		return
	}

	res := scheduler.Commit(r.Context(), h.store, plan.Posts)
	for _, p := range res.Created {
		h.emitEvent(realtimeEvent{Type: "post.created", PostID: p.ID, Platform: p.Platform, Status: p.Status})
	}
	log.Printf("[Schedule] committed posts=%d errors=%d accounts=%d", len(res.Created), len(res.Errors), len(plan.Accounts))

	var firstPost, lastPost *time.Time
	if len(res.Created) > 0 {
		firstPost = &res.Created[0].ScheduledTime
		lastPost = &res.Created[len(res.Created)-1].ScheduledTime
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Successfully scheduled %d posts", len(res.Created)),
		"posts":   res.Created,
		"errors":  res.Errors,
		"data": map[string]any{
			"scheduledPosts":   len(res.Created),
			"contentItems":     plan.ContentAvailable,
			"targetAccounts":   len(plan.Accounts),
			"distributionType": req.DistributionType,
			"schedulingMode":   req.SchedulingMode,
			"antiSpamMeasures": map[string]any{
				"jitterEnabled":           req.AntiSpam.JitterEnabled,
				"jitterMinutes":           req.AntiSpam.JitterMinutes,
				"staggerMinutes":          req.TimeSettings.StaggerMinutes,
				"inactiveAccountsSkipped": req.AntiSpam.SkipInactiveAccounts,
			},
			"timing": map[string]any{
				"firstPost": firstPost,
				"lastPost":  lastPost,
			},
		},
	})
}

func contentIDs(items []models.ContentItem) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, c := range items {
		out[c.ID] = struct{}{}
	}
	return out
}

func accountIDs(accounts []models.SocialAccount) map[string]struct{} {
	out := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		out[a.ID] = struct{}{}
	}
	return out
}

func missingIDs(wanted []string, have map[string]struct{}) []string {
	var missing []string
	for _, id := range wanted {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
