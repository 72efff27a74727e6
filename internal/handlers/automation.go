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

// automationRequest is the wire shape of POST /api/automation/simple and its
// preview variant. Validation happens once here; the engine never sees a
// malformed request.
type automationRequest struct {
	Platform      string   `json:"platform"`
	NumberOfPosts int      `json:"numberOfPosts"`
	NumberOfPages int      `json:"numberOfPages"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	ContentTypes  []string `json:"contentTypes,omitempty"`
	SelectedTags  []string `json:"selectedTags,omitempty"`
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (a automationRequest) validate() (scheduler.Request, error) {
	missing := []string{}
	if a.Platform == "" {
		missing = append(missing, "platform")
	}
	if a.NumberOfPosts <= 0 {
		missing = append(missing, "numberOfPosts")
	}
	if a.NumberOfPages <= 0 {
		missing = append(missing, "numberOfPages")
	}
	if a.StartDate == "" {
		missing = append(missing, "startDate")
	}
	if a.EndDate == "" {
		missing = append(missing, "endDate")
	}
	if len(missing) > 0 {
		return scheduler.Request{}, &scheduler.ValidationError{
			Msg: fmt.Sprintf("missing required fields: %s", joinComma(missing)),
		}
	}

	start, err := parseDate(a.StartDate)
	if err != nil {
		return scheduler.Request{}, &scheduler.ValidationError{Msg: "startDate must be YYYY-MM-DD or RFC3339"}
	}
	end, err := parseDate(a.EndDate)
	if err != nil {
		return scheduler.Request{}, &scheduler.ValidationError{Msg: "endDate must be YYYY-MM-DD or RFC3339"}
	}
	if end.Before(start) {
		return scheduler.Request{}, &scheduler.ValidationError{Msg: "endDate must not be before startDate"}
	}

	return scheduler.Request{
		Platform:      a.Platform,
		NumberOfPosts: a.NumberOfPosts,
		NumberOfPages: a.NumberOfPages,
		StartDate:     start,
		EndDate:       end,
		ContentTypes:  a.ContentTypes,
		SelectedTags:  a.SelectedTags,
	}, nil
}

func joinComma(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += f
	}
	return out
}

// loadPools fetches the active content library and the full account list; the
// engine does all filtering in memory so preview and commit share one code path.
func (h *Handler) loadPools(r *http.Request) ([]models.ContentItem, []models.SocialAccount, error) {
	content, err := h.store.ListContent(r.Context(), store.ContentFilters{Status: models.ContentStatusActive})
	if err != nil {
		return nil, nil, err
	}
	accounts, err := h.store.ListAccounts(r.Context(), store.AccountFilters{})
	if err != nil {
		return nil, nil, err
	}
	return content, accounts, nil
}

// AutomationSimple runs the full distribution pipeline and commits the batch.
func (h *Handler) AutomationSimple(w http.ResponseWriter, r *http.Request) {
	var body automationRequest
	if err := decodeJSON(r, &body); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := body.validate()
	if err != nil {
		writeSchedulerError(w, err)
		return
	}

	content, accounts, err := h.loadPools(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	plan, err := h.engine.PlanAutomation(req, content, accounts)
	if err != nil {
		writeSchedulerError(w, err)
		return
	}

	res := scheduler.Commit(r.Context(), h.store, plan.Posts)
	for _, p := range res.Created {
		h.emitEvent(realtimeEvent{Type: "post.created", PostID: p.ID, Platform: p.Platform, Status: p.Status})
	}
	log.Printf("[Automation] committed posts=%d errors=%d platform=%s", len(res.Created), len(res.Errors), req.Platform)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Created %d scheduled posts", len(res.Created)),
		"posts":   res.Created,
		"errors":  res.Errors,
		"summary": map[string]any{
			"totalPosts": len(res.Created),
			"accounts":   len(plan.Accounts),
			"platform":   req.Platform,
			"period":     fmt.Sprintf("%s to %s", body.StartDate, body.EndDate),
			"byPlatform": res.Summary.ByPlatform,
			"byAccount":  res.Summary.ByAccount,
		},
	})
}

// AutomationPreview runs the filtering and slot math without persisting
// anything: no scheduled_posts rows, no usage_count changes.
func (h *Handler) AutomationPreview(w http.ResponseWriter, r *http.Request) {
	var body automationRequest
	if err := decodeJSON(r, &body); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := body.validate()
	if err != nil {
		writeSchedulerError(w, err)
		return
	}

	content, accounts, err := h.loadPools(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	preview, err := h.engine.PlanPreview(req, content, accounts)
	if err != nil {
		writeSchedulerError(w, err)
		return
	}

	accountViews := make([]map[string]any, 0, len(preview.Accounts))
	for _, a := range preview.Accounts {
		accountViews = append(accountViews, map[string]any{
			"id":       a.ID,
			"name":     a.Name,
			"platform": a.Platform,
			"tags":     a.TagIDs,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"preview": map[string]any{
			"accounts":         accountViews,
			"contentAvailable": preview.ContentAvailable,
			"distribution": map[string]any{
				"totalPosts":      preview.TotalPosts,
				"totalDays":       preview.TotalDays,
				"postsPerDay":     preview.PostsPerDay,
				"postsPerAccount": preview.PostsPerAccount,
			},
		},
	})
}
