package rest

import (
	"net/http"
	"strings"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port/usecases_port"
)

type AuthMiddleware struct {
	validateUC usecases_port.ValidateTokenUseCasePort
	cookieName string
}

func NewAuthMiddleware(validateUC usecases_port.ValidateTokenUseCasePort, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{validateUC: validateUC, cookieName: cookieName}
}

// tokenFrom prefers the session cookie and falls back to a Bearer header.
func (am *AuthMiddleware) tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(am.cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return strings.TrimSpace(token)
}

// Authenticate rejects requests without a valid token.
func (am *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"middleware": "Authenticate"})

		tokenString := am.tokenFrom(r)
		if tokenString == "" {
			WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := am.validateUC.Execute(r.Context(), tokenString)
		if err != nil {
			logger.Warn("Rejected token", port.Fields{"error": err.Error()})
			WriteJSONError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		ctx := contextkeys.ContextWithClaims(r.Context(), claims, tokenString)
		ctx = contextkeys.ContextWithLogger(ctx, contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
			"user_id": claims.UserID.String(),
		}))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after Authenticate.
func (am *AuthMiddleware) RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := contextkeys.ClaimsFromContext(r.Context())
			if !ok {
				WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if claims.Role != requiredRole {
				WriteJSONError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
