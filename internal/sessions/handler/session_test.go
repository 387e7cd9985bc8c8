package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/kdrivas1989/tunnel-sessions/internal/notify"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/store"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/validator"
	"github.com/kdrivas1989/tunnel-sessions/pkg/clock"
	"github.com/kdrivas1989/tunnel-sessions/pkg/identity"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
)

var now = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})

	eng := engine.New(
		store.NewMemoryStore(),
		identity.NewGenerator(),
		clock.Fixed{Instant: now},
		validator.NewSessionValidator(false, log),
		engine.Config{
			AllowGuestBookings: true,
			AllowNotes:         true,
			CancellationWindow: 72 * time.Hour,
			NotificationWindow: 168 * time.Hour,
			Location:           time.UTC,
		},
		log,
	)

	router := httprouter.New()
	NewSessionHandler(eng, notify.NewLogNotifier(log), nil, log).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *httprouter.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, v); err != nil {
		t.Fatalf("decode data: %v (body: %s)", err, rec.Body.String())
	}
}

func createSession(t *testing.T, router *httprouter.Router, capacity int) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions", map[string]any{
		"date":     "2026-09-10",
		"time":     "18:30",
		"duration": 60,
		"capacity": capacity,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d, body %s", rec.Code, rec.Body.String())
	}

	var session struct {
		ID string `json:"id"`
	}
	decodeData(t, rec, &session)
	if session.ID == "" {
		t.Fatal("create session returned no id")
	}
	return session.ID
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, 5)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/sessions/id/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get session: status %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPatch, "/api/v1/sessions/id/"+id, map[string]any{"capacity": 8})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("patch session: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/id/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete session: status %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sessions/id/"+id, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted session: status %d, want 404", rec.Code)
	}
}

func TestListSessionsPaginatesOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	for _, hour := range []string{"10:00", "11:00", "12:00"} {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions", map[string]any{
			"date":     "2026-09-10",
			"time":     hour,
			"duration": 60,
			"capacity": 5,
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create session at %s: status %d", hour, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/sessions?limit=2&offset=2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d, body %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data       []json.RawMessage `json:"data"`
		TotalCount int64             `json:"total_count"`
		Limit      int               `json:"limit"`
		Offset     int64             `json:"offset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	if len(envelope.Data) != 1 {
		t.Errorf("page size = %d, want 1", len(envelope.Data))
	}
	if envelope.TotalCount != 3 {
		t.Errorf("total_count = %d, want 3", envelope.TotalCount)
	}
	if envelope.Limit != 2 || envelope.Offset != 2 {
		t.Errorf("limit, offset = %d, %d; want 2, 2", envelope.Limit, envelope.Offset)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sessions?limit=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: status %d, want 400", rec.Code)
	}
}

func TestCreateSessionRejectsBadBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBookingOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, 1)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/id/"+id+"/bookings", map[string]any{
		"first_name": "Alice",
		"last_name":  "Vega",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("book: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/id/"+id+"/bookings", map[string]any{
		"first_name": "Bob",
		"last_name":  "Vega",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("overbook: status %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CAPACITY_EXCEEDED") {
		t.Errorf("overbook body missing code: %s", rec.Body.String())
	}
}

func TestGuestCancellationOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, 3)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/id/"+id+"/bookings", map[string]any{
		"first_name": "Gema",
		"last_name":  "Ruiz",
		"email":      "gema@example.com",
		"is_guest":   true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("guest book: status %d, body %s", rec.Code, rec.Body.String())
	}

	var booking struct {
		CancellationToken string `json:"cancellation_token"`
	}
	decodeData(t, rec, &booking)
	if !strings.HasPrefix(booking.CancellationToken, "cancel_") {
		t.Fatalf("token = %q, want cancel_ prefix", booking.CancellationToken)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cancellations/token", map[string]any{
		"token": booking.CancellationToken,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("cancel by token: status %d, body %s", rec.Code, rec.Body.String())
	}

	var cancellation struct {
		NeedsNotification bool `json:"needs_notification"`
	}
	decodeData(t, rec, &cancellation)
	// The session is over 168h out, so no notification is due.
	if cancellation.NeedsNotification {
		t.Error("needs_notification = true for a far-out session")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/cancellations/token", map[string]any{
		"token": booking.CancellationToken,
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("reused token: status %d, want 404", rec.Code)
	}
}

func TestWaitlistOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, 1)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/sessions/id/"+id+"/waitlist", map[string]any{
		"email":      "a@example.com",
		"first_name": "Wait",
		"last_name":  "Listed",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("join waitlist: status %d, body %s", rec.Code, rec.Body.String())
	}

	var joined struct {
		Position int `json:"position"`
	}
	decodeData(t, rec, &joined)
	if joined.Position != 1 {
		t.Errorf("position = %d, want 1", joined.Position)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/sessions/id/"+id+"/waitlist", map[string]any{
		"email":      "a@example.com",
		"first_name": "Wait",
		"last_name":  "Listed",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate join: status %d, want 409", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sessions/id/"+id+"/waitlist/next", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("peek next: status %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/id/"+id+"/waitlist", map[string]any{
		"email": "a@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("leave waitlist: status %d", rec.Code)
	}
}

func TestCalendarExportOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	id := createSession(t, router, 5)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/sessions/id/"+id+"/calendar.ics?name=Alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar.ics: status %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("response is not an iCalendar body")
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/sessions/id/"+id+"/calendar/google", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("google link: status %d", rec.Code)
	}
	var link struct {
		URL string `json:"url"`
	}
	decodeData(t, rec, &link)
	if !strings.Contains(link.URL, "calendar.google.com") {
		t.Errorf("url = %q", link.URL)
	}
}
