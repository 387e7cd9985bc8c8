package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/auth"
	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/service"
	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	httputil "github.com/kdrivas1989/tunnel-sessions/pkg/http"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

type AccountHandler struct {
	service service.AccountService
	tokens  *auth.Tokens
	log     *logger.Logger
}

func NewAccountHandler(svc service.AccountService, tokens *auth.Tokens, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		service: svc,
		tokens:  tokens,
		log:     log,
	}
}

type CredentialsRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type ChangePasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type RegisterUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type PermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type FavoriteResponse struct {
	SessionID string `json:"session_id"`
	Favorited bool   `json:"favorited"`
}

func (h *AccountHandler) decode(w http.ResponseWriter, r *http.Request, handlerName string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handlerName, "operation", "WriteJSON", "error", writeErr)
		}
		return false
	}
	return true
}

func (h *AccountHandler) writeErr(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AccountHandler) BootstrapAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CredentialsRequest
	if !h.decode(w, r, "BootstrapAdmin", &req) {
		return
	}

	if err := h.service.BootstrapAdmin(r.Context(), req.Username, req.Password); err != nil {
		h.writeErr(w, "BootstrapAdmin", err)
		return
	}

	if err := httputil.WriteCreated(w, nil); err != nil {
		h.log.Error("failed to write created response", "handler", "BootstrapAdmin", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccountHandler) LoginAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CredentialsRequest
	if !h.decode(w, r, "LoginAdmin", &req) {
		return
	}

	token, err := h.service.LoginAdmin(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeErr(w, "LoginAdmin", err)
		return
	}

	if err := httputil.WriteSuccess(w, TokenResponse{Token: token}); err != nil {
		h.log.Error("failed to write success response", "handler", "LoginAdmin", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) ChangeAdminPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ChangePasswordRequest
	if !h.decode(w, r, "ChangeAdminPassword", &req) {
		return
	}

	if err := h.service.ChangeAdminPassword(r.Context(), req.Username, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeErr(w, "ChangeAdminPassword", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AccountHandler) CreateHost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CredentialsRequest
	if !h.decode(w, r, "CreateHost", &req) {
		return
	}

	host, err := h.service.CreateHost(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeErr(w, "CreateHost", err)
		return
	}

	if err := httputil.WriteCreated(w, host); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateHost", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccountHandler) LoginHost(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CredentialsRequest
	if !h.decode(w, r, "LoginHost", &req) {
		return
	}

	token, err := h.service.LoginHost(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeErr(w, "LoginHost", err)
		return
	}

	if err := httputil.WriteSuccess(w, TokenResponse{Token: token}); err != nil {
		h.log.Error("failed to write success response", "handler", "LoginHost", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) ListHosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeErr(w, "ListHosts", err)
		return
	}

	hosts, err := h.service.ListHosts(r.Context())
	if err != nil {
		h.writeErr(w, "ListHosts", err)
		return
	}

	total := int64(len(hosts))
	page := httputil.Paginate(hosts, limit, offset)

	if err := httputil.WritePaginated(w, page, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListHosts", "operation", "WritePaginated", "error", err)
	}
}

func (h *AccountHandler) DeleteHost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteHost(r.Context(), ps.ByName("id")); err != nil {
		h.writeErr(w, "DeleteHost", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *AccountHandler) RegisterUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req RegisterUserRequest
	if !h.decode(w, r, "RegisterUser", &req) {
		return
	}

	user := &model.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := h.service.RegisterUser(r.Context(), user, req.Password); err != nil {
		h.writeErr(w, "RegisterUser", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "RegisterUser", "operation", "WriteCreated", "error", err)
	}
}

func (h *AccountHandler) LoginUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CredentialsRequest
	if !h.decode(w, r, "LoginUser", &req) {
		return
	}

	token, err := h.service.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeErr(w, "LoginUser", err)
		return
	}

	if err := httputil.WriteSuccess(w, TokenResponse{Token: token}); err != nil {
		h.log.Error("failed to write success response", "handler", "LoginUser", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req PermissionsRequest
	if !h.decode(w, r, "UpdatePermissions", &req) {
		return
	}

	if err := h.service.UpdatePermissions(r.Context(), ps.ByName("id"), req.Permissions); err != nil {
		h.writeErr(w, "UpdatePermissions", err)
		return
	}

	httputil.WriteNoContent(w)
}

// ToggleFavorite acts on the authenticated user from the token claims,
// never on a caller-supplied user id.
func (h *AccountHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		h.writeErr(w, "ToggleFavorite", apperrors.Unauthorized("Missing bearer token"))
		return
	}

	sessionID := ps.ByName("id")
	favorited, err := h.service.ToggleFavorite(r.Context(), claims.Subject, sessionID)
	if err != nil {
		h.writeErr(w, "ToggleFavorite", err)
		return
	}

	if err := httputil.WriteSuccess(w, FavoriteResponse{SessionID: sessionID, Favorited: favorited}); err != nil {
		h.log.Error("failed to write success response", "handler", "ToggleFavorite", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AccountHandler) RegisterRoutes(router *httprouter.Router) {
	admin := RequireRole(h.tokens, h.log, auth.RoleAdmin)
	user := RequireRole(h.tokens, h.log, auth.RoleUser)

	router.POST("/api/v1/admin/bootstrap", h.BootstrapAdmin)
	router.POST("/api/v1/admin/login", h.LoginAdmin)
	router.POST("/api/v1/admin/password", admin(h.ChangeAdminPassword))

	router.POST("/api/v1/hosts", admin(h.CreateHost))
	router.GET("/api/v1/hosts", admin(h.ListHosts))
	router.DELETE("/api/v1/hosts/id/:id", admin(h.DeleteHost))
	router.POST("/api/v1/hosts/login", h.LoginHost)

	router.POST("/api/v1/users/register", h.RegisterUser)
	router.POST("/api/v1/users/login", h.LoginUser)
	router.PUT("/api/v1/users/id/:id/permissions", admin(h.UpdatePermissions))
	router.POST("/api/v1/users/favorites/id/:id", user(h.ToggleFavorite))
}
