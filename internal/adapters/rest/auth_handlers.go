package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port/usecases_port"
)

type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type AuthHandlers struct {
	loginUC usecases_port.LoginAdminUseCasePort
	cookie  CookieConfig
}

func NewAuthHandlers(loginUC usecases_port.LoginAdminUseCasePort, cookie CookieConfig) *AuthHandlers {
	return &AuthHandlers{loginUC: loginUC, cookie: cookie}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Login"})

	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid login request", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	handlerLogger := logger.WithFields(port.Fields{"email": req.Email})
	handlerLogger.Info("Processing login request", nil)

	user, token, err := h.loginUC.Execute(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			handlerLogger.Warn("Login failed: invalid credentials", nil)
			WriteJSONError(w, http.StatusUnauthorized, err.Error())
		case errors.Is(err, domain.ErrForbidden):
			handlerLogger.Warn("Login failed: not an admin", nil)
			WriteJSONError(w, http.StatusForbidden, err.Error())
		default:
			handlerLogger.Error("Login use case failed with an unexpected error", err, nil)
			WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	handlerLogger.Info("User logged in successfully", port.Fields{"user_id": user.ID})
	RespondWithJSON(w, http.StatusOK, AuthResponse{
		Token:  token,
		UserID: user.ID.String(),
		Email:  user.Email,
		Role:   user.Role,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := contextkeys.ClaimsFromContext(r.Context())
	if !ok {
		WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	RespondWithJSON(w, http.StatusOK, AuthResponse{
		UserID: claims.UserID.String(),
		Email:  claims.Email,
		Role:   claims.Role,
	})
}
