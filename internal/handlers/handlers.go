package handlers

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"log"
	"net/http"

	"github.com/chihoangvnn/sunfoods-sub005/internal/models"
	"github.com/chihoangvnn/sunfoods-sub005/internal/scheduler"
	"github.com/chihoangvnn/sunfoods-sub005/internal/store"
)

type Handler struct {
	db     *sql.DB
	store  *store.Store
	engine *scheduler.Engine
	rt     *realtimeHub
}

func New(db *sql.DB) *Handler {
	return &Handler{
		db:     db,
		store:  store.New(db),
		engine: scheduler.NewEngine(),
		rt:     newRealtimeHub(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// writeSchedulerError maps the scheduler error taxonomy onto HTTP statuses.
// Every one of these fires before the first write, so a non-2xx response
// always means zero side effects.
func writeSchedulerError(w http.ResponseWriter, err error) {
	var validation *scheduler.ValidationError
	var notFound *scheduler.NotFoundError
	var noMatch *scheduler.NoMatchError
	var unsupported *scheduler.UnsupportedFeatureError

	switch {
	case errors.As(err, &validation):
		writeErrorJSON(w, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		writeErrorJSON(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &noMatch):
		writeErrorJSON(w, http.StatusBadRequest, noMatch.Error())
	case errors.As(err, &unsupported):
		writeErrorJSON(w, http.StatusNotImplemented, unsupported.Error())
	default:
		log.Printf("[Handlers] internal error: %v", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}

func randHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

// --- Content library CRUD glue ---

func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	f := store.ContentFilters{Status: r.URL.Query().Get("status")}
	if t := r.URL.Query().Get("contentType"); t != "" {
		f.Types = []string{t}
	}
	items, err := h.store.ListContent(r.Context(), f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []models.ContentItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	var c models.ContentItem
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if c.Title == "" {
		writeErrorJSON(w, http.StatusBadRequest, "title is required")
		return
	}
	switch c.ContentType {
	case models.ContentTypeText, models.ContentTypeImage, models.ContentTypeVideo, models.ContentTypeMixed:
	default:
		writeErrorJSON(w, http.StatusBadRequest, "contentType must be one of text, image, video, mixed")
		return
	}
	created, err := h.store.CreateContent(r.Context(), c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, created)
}

func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetContent(r.Context(), pathVar(r, "id"))
	if err == sql.ErrNoRows {
		writeErrorJSON(w, http.StatusNotFound, "content not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- Social account CRUD glue ---

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context(), store.AccountFilters{Platform: r.URL.Query().Get("platform")})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accounts == nil {
		accounts = []models.SocialAccount{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var a models.SocialAccount
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if a.Platform == "" {
		writeErrorJSON(w, http.StatusBadRequest, "platform is required")
		return
	}
	created, err := h.store.CreateAccount(r.Context(), a)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// --- Tags CRUD glue ---

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.store.ListTags(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var t models.Tag
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if t.Slug == "" {
		writeErrorJSON(w, http.StatusBadRequest, "slug is required")
		return
	}
	created, err := h.store.CreateTag(r.Context(), t)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, created)
}
