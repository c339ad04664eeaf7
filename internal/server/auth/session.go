package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long an issued session stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Claims carries the admin id in the subject and the email alongside.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SessionIssuer signs and verifies HS256 session tokens. Sessions are
// stateless: a token stays valid until it expires.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionIssuer(secret []byte, ttl time.Duration) (*SessionIssuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionIssuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

func (s *SessionIssuer) TTL() time.Duration {
	return s.ttl
}

func (s *SessionIssuer) Issue(p models.Principal) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: p.Email,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt.Truncate(time.Second), nil
}

// Verify returns the principal of a valid token. Every failure is
// common.ErrInvalidSession.
func (s *SessionIssuer) Verify(tokenString string) (*models.Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidSession
	}
	if claims.Subject == "" {
		return nil, common.ErrInvalidSession
	}

	return &models.Principal{ID: claims.Subject, Email: claims.Email}, nil
}
