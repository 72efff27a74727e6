package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/lib/pq"
)

func TestHealth(t *testing.T) {
	h := New(nil)
	rr := httptest.NewRecorder()
	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var out map[string]bool
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if !out["ok"] {
		t.Fatalf("expected ok=true, got %v", out)
	}
}

func TestCreateContent_Validation(t *testing.T) {
	h, mock, done := newMockHandler(t)
	defer done()

	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"contentType":"text"}`},
		{"bad content type", `{"title":"Tea","contentType":"podcast"}`},
		{"not json", `not-json`},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/content", bytes.NewBufferString(tc.body))
		h.CreateContent(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 got %d body=%q", tc.name, rr.Code, rr.Body.String())
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("invalid content must not touch storage: %v", err)
	}
}

func TestCreateContent_Success(t *testing.T) {
	h, mock, done := newMockHandler(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO public\.content_library`).
		WillReturnRows(contentLibraryRows().AddRow(
			"c1", "Tea", "Morning tea", "text",
			pq.Array([]string{"facebook"}), pq.Array([]string{"tea"}), pq.Array([]string{}), pq.Array([]string{"#tea"}),
			0, "active", now, now))

	body := `{"title":"Tea","baseContent":"Morning tea","contentType":"text","platforms":["facebook"],"tagIds":["tea"],"hashtags":["#tea"]}`
	rr := httptest.NewRecorder()
	h.CreateContent(rr, httptest.NewRequest(http.MethodPost, "/api/content", bytes.NewBufferString(body)))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%q", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestGetContent_NotFound(t *testing.T) {
	h, mock, done := newMockHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT .+ FROM public\.content_library WHERE id = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/api/content/ghost", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "ghost"})
	rr := httptest.NewRecorder()
	h.GetContent(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d body=%q", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestCreateAccount_RequiresPlatform(t *testing.T) {
	h, mock, done := newMockHandler(t)
	defer done()

	rr := httptest.NewRecorder()
	h.CreateAccount(rr, httptest.NewRequest(http.MethodPost, "/api/social-accounts", bytes.NewBufferString(`{"name":"Page"}`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%q", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("invalid account must not touch storage: %v", err)
	}
}

func TestCreateTag_RequiresSlug(t *testing.T) {
	h, mock, done := newMockHandler(t)
	defer done()

	rr := httptest.NewRecorder()
	h.CreateTag(rr, httptest.NewRequest(http.MethodPost, "/api/tags", bytes.NewBufferString(`{"name":"Tea"}`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%q", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("invalid tag must not touch storage: %v", err)
	}
}

func TestListContent_EmptyIsJSONArray(t *testing.T) {
	h, mock, done := newMockHandler(t)
	defer done()

	mock.ExpectQuery(`SELECT .+ FROM public\.content_library`).
		WillReturnRows(contentLibraryRows())

	rr := httptest.NewRecorder()
	h.ListContent(rr, httptest.NewRequest(http.MethodGet, "/api/content", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" && body != "[]" {
		t.Fatalf("expected empty json array, got %q", body)
	}
}
