package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/chihoangvnn/sunfoods-sub005/internal/store"
)

// ListDuePosts returns claimed posts awaiting pickup by the external publisher.
func (h *Handler) ListDuePosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListDuePosts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if posts == nil {
		posts = []models.ScheduledPost{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts, "count": len(posts)})
}

type postStatusRequest struct {
	Status string  `json:"status"`
	Error  *string `json:"error,omitempty"`
}

// UpdatePostStatus is the external publisher's callback. Only the transitions
// out of the scheduled state are accepted; the scheduler-owned part of the
// lifecycle (draft → pending_approval → scheduled) is never re-entered here.
func (h *Handler) UpdatePostStatus(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "id")

	var body postStatusRequest
	if err := decodeJSON(r, &body); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	switch body.Status {
	case models.PostStatusPublished, models.PostStatusFailed, models.PostStatusCancelled:
	default:
		writeErrorJSON(w, http.StatusBadRequest, "status must be one of published, failed, cancelled")
		return
	}

	post, err := h.store.UpdatePostStatus(r.Context(), id, body.Status, body.Error)
	if errors.Is(err, sql.ErrNoRows) {
		writeErrorJSON(w, http.StatusNotFound, "post not found")
		return
	}
	if errors.Is(err, store.ErrInvalidTransition) {
		writeErrorJSON(w, http.StatusConflict, "post is not in the scheduled state")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.emitEvent(realtimeEvent{Type: "post.updated", PostID: post.ID, Platform: post.Platform, Status: post.Status})
	writeJSON(w, http.StatusOK, post)
}
