package handler

import (
	"net/http"
	"strings"
	"time"

	"go-interview-client/internal/middleware"
	"go-interview-client/internal/model"
	"go-interview-client/internal/service"
	"go-interview-client/pkg/apierror"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	service      *service.AuthService
	secureCookie bool
}

func NewAuthHandler(service *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookie: secureCookie}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	h.respondTokens(w, tokens, err)
}

func (h *AuthHandler) Google(w http.ResponseWriter, r *http.Request) {
	var payload model.GoogleLoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(payload.IDToken) == "" {
		writeError(w, apierror.New(http.StatusUnprocessableEntity, "id_token_str is required"))
		return
	}

	tokens, err := h.service.LoginWithGoogle(r.Context(), payload.IDToken)
	h.respondTokens(w, tokens, err)
}

// Refresh takes the refresh token from the body, or from its cookie when the
// body is empty.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload model.RefreshRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	token := strings.TrimSpace(payload.RefreshToken)
	if token == "" {
		if cookie, err := r.Cookie(refreshCookie); err == nil {
			token = cookie.Value
		}
	}
	if token == "" {
		writeError(w, apierror.New(http.StatusUnauthorized, "Invalid or expired refresh token"))
		return
	}

	tokens, err := h.service.Refresh(r.Context(), token)
	h.respondTokens(w, tokens, err)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var payload model.RefreshRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	token := strings.TrimSpace(payload.RefreshToken)
	if cookie, err := r.Cookie(refreshCookie); token == "" && err == nil {
		token = cookie.Value
	}
	h.service.Logout(r.Context(), token)

	h.clearCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	user, err := h.service.Me(r.Context(), claims)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) respondTokens(w http.ResponseWriter, tokens model.TokenPair, err error) {
	if err != nil {
		writeError(w, err)
		return
	}

	h.setCookie(w, middleware.AccessCookie, tokens.AccessToken, h.service.AccessTTL())
	h.setCookie(w, refreshCookie, tokens.RefreshToken, h.service.RefreshTTL())
	writeJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessCookie, refreshCookie} {
		http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: h.secureCookie})
	}
}
