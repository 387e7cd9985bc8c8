package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "github.com/kdrivas1989/tunnel-sessions/pkg/http"
)

type GoogleLinkResponse struct {
	URL string `json:"url"`
}

func (h *SessionHandler) CalendarICS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ics, err := h.engine.CalendarInvite(r.Context(), ps.ByName("id"), r.URL.Query().Get("name"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CalendarICS", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="session.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ics)); err != nil {
		h.log.Error("failed to write calendar response", "handler", "CalendarICS", "error", err)
	}
}

func (h *SessionHandler) CalendarGoogleLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	link, err := h.engine.GoogleCalendarLink(r.Context(), ps.ByName("id"), r.URL.Query().Get("name"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CalendarGoogleLink", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, GoogleLinkResponse{URL: link}); err != nil {
		h.log.Error("failed to write success response", "handler", "CalendarGoogleLink", "operation", "WriteSuccess", "error", err)
	}
}
