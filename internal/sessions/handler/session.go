package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/kdrivas1989/tunnel-sessions/internal/notify"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/engine"
	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	httputil "github.com/kdrivas1989/tunnel-sessions/pkg/http"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

// Guard wraps a route with an authorization check. Session-management
// routes are registered through it; a nil guard leaves them open.
type Guard func(httprouter.Handle) httprouter.Handle

type SessionHandler struct {
	engine   *engine.Engine
	notifier notify.Notifier
	guard    Guard
	log      *logger.Logger
}

func NewSessionHandler(eng *engine.Engine, notifier notify.Notifier, guard Guard, log *logger.Logger) *SessionHandler {
	if guard == nil {
		guard = func(next httprouter.Handle) httprouter.Handle { return next }
	}
	return &SessionHandler{
		engine:   eng,
		notifier: notifier,
		guard:    guard,
		log:      log,
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var session model.Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.engine.CreateSession(r.Context(), &session); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, session); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	sessions, err := h.engine.ListSessions(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	total := int64(len(sessions))
	page := httputil.Paginate(sessions, limit, offset)

	if err := httputil.WritePaginated(w, page, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, err := h.engine.GetSessionByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.engine.UpdateSession(r.Context(), ps.ByName("id"), &updates); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Update", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.engine.DeleteSession(r.Context(), ps.ByName("id")); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Delete", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

type PurgeResponse struct {
	Purged int `json:"purged"`
}

func (h *SessionHandler) Purge(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	purged, err := h.engine.PurgePastSessions(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Purge", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, PurgeResponse{Purged: purged}); err != nil {
		h.log.Error("failed to write success response", "handler", "Purge", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SessionHandler) AddBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req engine.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddBooking", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	booking, err := h.engine.AddBooking(r.Context(), ps.ByName("id"), req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "AddBooking", "operation", "WriteCreated", "error", err)
	}
}

type BatchBookingRequest struct {
	Email    string                  `json:"email,omitempty"`
	Bookings []engine.BookingRequest `json:"bookings"`
}

func (h *SessionHandler) AddBookings(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req BatchBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "AddBookings", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	bookings, err := h.engine.AddMultipleBookings(r.Context(), ps.ByName("id"), req.Bookings, req.Email)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddBookings", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, bookings); err != nil {
		h.log.Error("failed to write created response", "handler", "AddBookings", "operation", "WriteCreated", "error", err)
	}
}

func (h *SessionHandler) RemoveBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	index, err := strconv.Atoi(ps.ByName("index"))
	if err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid booking index: "+ps.ByName("index"))); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.engine.RemoveBooking(r.Context(), ps.ByName("id"), index); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RemoveBooking", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sessions", h.guard(h.Create))
	router.GET("/api/v1/sessions", h.GetAll)
	router.GET("/api/v1/sessions/id/:id", h.GetByID)
	router.PATCH("/api/v1/sessions/id/:id", h.guard(h.Update))
	router.DELETE("/api/v1/sessions/id/:id", h.guard(h.Delete))
	router.POST("/api/v1/sessions/purge", h.guard(h.Purge))

	router.POST("/api/v1/sessions/id/:id/bookings", h.AddBooking)
	router.POST("/api/v1/sessions/id/:id/bookings/batch", h.AddBookings)
	router.DELETE("/api/v1/sessions/id/:id/bookings/index/:index", h.guard(h.RemoveBooking))

	router.POST("/api/v1/sessions/id/:id/cancellations", h.CancelBooking)
	router.POST("/api/v1/cancellations/token", h.CancelByToken)

	router.POST("/api/v1/sessions/id/:id/waitlist", h.JoinWaitlist)
	router.DELETE("/api/v1/sessions/id/:id/waitlist", h.LeaveWaitlist)
	router.GET("/api/v1/sessions/id/:id/waitlist", h.GetWaitlist)
	router.GET("/api/v1/sessions/id/:id/waitlist/next", h.NextOnWaitlist)

	router.GET("/api/v1/sessions/id/:id/calendar.ics", h.CalendarICS)
	router.GET("/api/v1/sessions/id/:id/calendar/google", h.CalendarGoogleLink)
}
