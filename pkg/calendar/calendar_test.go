package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

func testSession() *model.Session {
	return &model.Session{
		ID:          "sess-1",
		SessionType: "Rookie",
		Date:        "2026-09-10",
		Time:        "18:30",
		Duration:    60,
		Capacity:    8,
	}
}

func TestICS(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	ics, err := ICS(testSession(), "Alice Smith", time.UTC, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:sess-1-",
		"DTSTART:20260910T183000Z",
		"DTEND:20260910T193000Z",
		"SUMMARY:Rookie - Tunnel Session",
		"DESCRIPTION:Booked for: Alice Smith",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ICS output missing %q:\n%s", want, ics)
		}
	}

	if !strings.Contains(ics, "\r\n") {
		t.Error("ICS lines must be CRLF separated")
	}
}

func TestICS_InvalidDate(t *testing.T) {
	session := testSession()
	session.Date = "not-a-date"

	if _, err := ICS(session, "", time.UTC, time.Now()); err == nil {
		t.Error("expected error for invalid session date")
	}
}

func TestGoogleLink(t *testing.T) {
	link, err := GoogleLink(testSession(), "", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(link, "https://calendar.google.com/calendar/render?") {
		t.Errorf("unexpected link prefix: %s", link)
	}
	if !strings.Contains(link, "20260910T183000Z%2F20260910T193000Z") {
		t.Errorf("link missing encoded date range: %s", link)
	}
}
