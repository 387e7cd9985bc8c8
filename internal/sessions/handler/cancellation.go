package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
	httputil "github.com/kdrivas1989/tunnel-sessions/pkg/http"
)

type CancelBookingRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type CancelByTokenRequest struct {
	Token string `json:"token"`
}

// alert pushes the cancellation to the notifier when the engine flagged
// it. Delivery failures never fail the request; the cancellation is
// already committed.
func (h *SessionHandler) alert(r *http.Request, c *engine.Cancellation) {
	if !c.NeedsNotification || h.notifier == nil {
		return
	}
	if err := h.notifier.CancellationAlert(r.Context(), c); err != nil {
		h.log.Error("Failed to deliver cancellation alert",
			"session_id", c.Session.ID,
			"error", err,
		)
	}
}

func (h *SessionHandler) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CancelBooking", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	cancellation, err := h.engine.CancelUserBooking(r.Context(), ps.ByName("id"), req.FirstName, req.LastName)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	h.alert(r, cancellation)

	if err := httputil.WriteSuccess(w, cancellation); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelBooking", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) CancelByToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CancelByTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CancelByToken", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	cancellation, err := h.engine.CancelBookingByToken(r.Context(), req.Token)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CancelByToken", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	h.alert(r, cancellation)

	if err := httputil.WriteSuccess(w, cancellation); err != nil {
		h.log.Error("failed to write success response", "handler", "CancelByToken", "operation", "WriteSuccess", "error", err)
	}
}
