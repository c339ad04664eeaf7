package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
)

type ctxKey struct{}

// PrincipalFromContext returns the principal attached by the session gate.
func PrincipalFromContext(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(models.Principal)
	return p, ok
}

func withPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// requireSession rejects requests without a valid session before next runs.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessionToken(r)
		if !ok {
			s.unauthorized(w)
			return
		}
		p, err := s.sessions.Verify(token)
		if err != nil {
			s.unauthorized(w)
			return
		}
		next(w, r.WithContext(withPrincipal(r.Context(), *p)))
	}
}

func (s *Server) unauthorized(w http.ResponseWriter) {
	s.clearSessionCookie(w)
	writeError(w, http.StatusUnauthorized, "Unauthorized")
}

// sessionToken reads the session cookie, falling back to a bearer token.
func sessionToken(r *http.Request) (string, bool) {
	if c, err := r.Cookie(common.SessionCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		if tok := strings.TrimSpace(h[7:]); tok != "" {
			return tok, true
		}
	}
	return "", false
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
