// Package calendar formats sessions for external calendars: ICS files and
// Google Calendar links.
package calendar

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

const icsStampLayout = "20060102T150405Z"

// ICS renders a single-event VCALENDAR body for the session. The UID
// embeds the session ID so regenerated files replace earlier imports.
func ICS(session *model.Session, participantName string, loc *time.Location, now time.Time) (string, error) {
	start, err := session.StartsAt(loc)
	if err != nil {
		return "", err
	}
	end := start.Add(time.Duration(session.Duration) * time.Minute)

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Tunnel Sessions//Booking//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		fmt.Sprintf("UID:%s-%d@tunnelsessions", session.ID, now.UnixMilli()),
		"DTSTAMP:" + now.UTC().Format(icsStampLayout),
		"DTSTART:" + start.UTC().Format(icsStampLayout),
		"DTEND:" + end.UTC().Format(icsStampLayout),
		"SUMMARY:" + eventTitle(session),
		"DESCRIPTION:" + eventDescription(participantName),
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	return strings.Join(lines, "\r\n"), nil
}

// GoogleLink builds a calendar.google.com render URL for the session.
func GoogleLink(session *model.Session, participantName string, loc *time.Location) (string, error) {
	start, err := session.StartsAt(loc)
	if err != nil {
		return "", err
	}
	end := start.Add(time.Duration(session.Duration) * time.Minute)

	query := url.Values{}
	query.Set("action", "TEMPLATE")
	query.Set("text", eventTitle(session))
	query.Set("dates", start.UTC().Format(icsStampLayout)+"/"+end.UTC().Format(icsStampLayout))
	query.Set("details", eventDescription(participantName))

	return "https://calendar.google.com/calendar/render?" + query.Encode(), nil
}

func eventTitle(session *model.Session) string {
	if session.SessionType == "" {
		return "Tunnel Session"
	}
	return session.SessionType + " - Tunnel Session"
}

func eventDescription(participantName string) string {
	if participantName == "" {
		return "Indoor Skydiving Session"
	}
	return "Booked for: " + participantName
}
