package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	httputil "github.com/kdrivas1989/tunnel-sessions/pkg/http"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

type JoinWaitlistResponse struct {
	Position int `json:"position"`
}

type LeaveWaitlistRequest struct {
	Email string `json:"email"`
}

type LeaveWaitlistResponse struct {
	Removed bool `json:"removed"`
}

func (h *SessionHandler) JoinWaitlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var entry model.WaitlistEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "JoinWaitlist", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	position, err := h.engine.JoinWaitlist(r.Context(), ps.ByName("id"), entry)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "JoinWaitlist", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, JoinWaitlistResponse{Position: position}); err != nil {
		h.log.Error("failed to write created response", "handler", "JoinWaitlist", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) LeaveWaitlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req LeaveWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "LeaveWaitlist", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	if req.Email == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("Email is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "LeaveWaitlist", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	removed, err := h.engine.LeaveWaitlist(r.Context(), ps.ByName("id"), req.Email)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "LeaveWaitlist", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, LeaveWaitlistResponse{Removed: removed}); err != nil {
		h.log.Error("failed to write success response", "handler", "LeaveWaitlist", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) GetWaitlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entries, err := h.engine.GetWaitlist(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetWaitlist", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, entries); err != nil {
		h.log.Error("failed to write success response", "handler", "GetWaitlist", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) NextOnWaitlist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	next, err := h.engine.NextOnWaitlist(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "NextOnWaitlist", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, next); err != nil {
		h.log.Error("failed to write success response", "handler", "NextOnWaitlist", "operation", "WriteSuccess", "error", err)
	}
}
