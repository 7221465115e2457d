package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hubpal/backend/internal/model"
	"github.com/hubpal/backend/internal/service"
)

func TestSignOffHandler_SignOff(t *testing.T) {
	st := newTestStore(t)
	seedProject(t, st)
	h := NewSignOffHandler(service.NewSignOffService(st))

	mux := http.NewServeMux()
	mux.Handle("POST /api/projects/{id}/milestones/{mid}/signoff", http.HandlerFunc(h.SignOff))

	req := httptest.NewRequest("POST", "/api/projects/p1/milestones/m1/signoff", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(got["event_id"], "QB-") {
		t.Errorf("malformed event ID %q", got["event_id"])
	}

	p, err := st.GetByID("p1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Milestones[0].Status != model.StatusCompleted {
		t.Errorf("sign-off should complete a pending milestone, got %q", p.Milestones[0].Status)
	}
}

func TestSignOffHandler_SignOff_Idempotent(t *testing.T) {
	st := newTestStore(t)
	seedProject(t, st)
	h := NewSignOffHandler(service.NewSignOffService(st))

	mux := http.NewServeMux()
	mux.Handle("POST /api/projects/{id}/milestones/{mid}/signoff", http.HandlerFunc(h.SignOff))

	first := httptest.NewRecorder()
	mux.ServeHTTP(first, httptest.NewRequest("POST", "/api/projects/p1/milestones/m1/signoff", nil))
	second := httptest.NewRecorder()
	mux.ServeHTTP(second, httptest.NewRequest("POST", "/api/projects/p1/milestones/m1/signoff", nil))

	var a, b map[string]string
	if err := json.NewDecoder(first.Body).Decode(&a); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.NewDecoder(second.Body).Decode(&b); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if a["event_id"] != b["event_id"] {
		t.Errorf("repeated sign-off changed event ID: %q vs %q", a["event_id"], b["event_id"])
	}
}

func TestSignOffHandler_SignOff_NotFound(t *testing.T) {
	st := newTestStore(t)
	h := NewSignOffHandler(service.NewSignOffService(st))

	mux := http.NewServeMux()
	mux.Handle("POST /api/projects/{id}/milestones/{mid}/signoff", http.HandlerFunc(h.SignOff))

	req := httptest.NewRequest("POST", "/api/projects/ghost/milestones/m1/signoff", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
