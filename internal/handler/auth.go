package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/koverin/shopstore/internal/domain"
	"github.com/koverin/shopstore/internal/service"
	"github.com/koverin/shopstore/internal/session"
)

// AuthHandler handles authentication-related HTTP requests. Credential
// exchanges go through the session store to the identity provider; the JWT
// cookie only carries the result through subsequent requests.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *session.Store
	provider     domain.Provider
	limiter      *service.TokenBucket
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *session.Store, provider domain.Provider, limiter *service.TokenBucket, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		sessions:     sessions,
		provider:     provider,
		limiter:      limiter,
		cookieSecure: cookieSecure,
	}
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if !h.limiter.Allow(clientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		return
	}

	if err := h.sessions.Login(r.Context(), req.Email, req.Password); err != nil {
		var ae *domain.AuthError
		if errors.As(err, &ae) && ae.Code == domain.AuthCodeInvalidCredential {
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		slog.Error("login", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.issueCookieAndRespond(w, r, req.Email, http.StatusOK)
}

// HandleRegister processes a JSON registration request. The provider signs
// the new account in, mirroring hosted-provider behavior.
// POST /api/auth/register
// Request:  {"email":"...","password":"..."}
// Response: {"user": {...}}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.provider.SignUp(r.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, "An account with that email already exists.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.Error("register", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.issueCookieAndRespond(w, r, req.Email, http.StatusCreated)
}

// HandleLogout signs out of the provider and clears the auth cookie.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		slog.Error("logout", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated account.
// GET /api/auth/me
// Response: {"user": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": toAccountDTO(account),
	})
}

// HandleSession returns the process-wide session snapshot as the session
// store currently sees it. Because provider events arrive asynchronously,
// this may briefly lag a login whose request has already completed.
// GET /api/session
func (h *AuthHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toSessionDTO(h.sessions.Current()))
}

// issueCookieAndRespond mints a JWT for the account the provider just
// accepted and writes the user payload.
func (h *AuthHandler) issueCookieAndRespond(w http.ResponseWriter, r *http.Request, email string, status int) {
	account, err := h.auth.GetAccountByEmail(r.Context(), email)
	if err != nil {
		slog.Error("get account after sign-in", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	token, err := h.auth.IssueToken(account)
	if err != nil {
		slog.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400, // 24 hours
	})

	writeJSON(w, status, map[string]any{
		"user": toAccountDTO(account),
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
