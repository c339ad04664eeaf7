package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
	Token     string    `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if ok, wait := s.loginLimiter.Allow(clientIP(r)); !ok {
		w.Header().Set("Retry-After", retryAfterSeconds(wait))
		writeError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := s.admins.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	token, expiresAt, err := s.sessions.Issue(*p)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.setSessionCookie(w, token, expiresAt)
	writeJSON(w, http.StatusOK, loginResponse{ID: p.ID, Email: p.Email, ExpiresAt: expiresAt, Token: token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromContext(r.Context())
	writeJSON(w, http.StatusOK, p)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		s.unauthorized(w)
		return
	}

	var req changePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.admins.ChangePassword(r.Context(), p, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
	default:
		s.writeServiceError(w, r, err)
	}
}
