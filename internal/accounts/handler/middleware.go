package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/auth"
	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/service"
	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	httputil "github.com/kdrivas1989/tunnel-sessions/pkg/http"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
)

type claimsKey struct{}

// ClaimsFromContext returns the verified token claims, or nil outside a
// guarded route.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func writeAuthError(w http.ResponseWriter, log *logger.Logger, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write error response", "middleware", "auth", "error", writeErr)
	}
}

// RequireRole admits only callers whose token carries one of the given
// roles.
func RequireRole(tokens *auth.Tokens, log *logger.Logger, roles ...string) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, log, apperrors.Unauthorized("Missing bearer token"))
				return
			}
			claims, err := tokens.Parse(token)
			if err != nil {
				writeAuthError(w, log, apperrors.Unauthorized("Invalid or expired token"))
				return
			}
			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				writeAuthError(w, log, apperrors.Forbidden("Insufficient role"))
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)), ps)
		}
	}
}

// ManageGuard admits admins, hosts, and users holding the secretary
// permission. Session-management routes are wrapped with it.
func ManageGuard(tokens *auth.Tokens, svc service.AccountService, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, log, apperrors.Unauthorized("Missing bearer token"))
				return
			}
			claims, err := tokens.Parse(token)
			if err != nil {
				writeAuthError(w, log, apperrors.Unauthorized("Invalid or expired token"))
				return
			}
			if !svc.CanManage(r.Context(), claims) {
				writeAuthError(w, log, apperrors.Forbidden("Session management requires host access"))
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)), ps)
		}
	}
}
