package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrincipal = models.Principal{ID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Email: "admin@bytonbyte.com"}

func newIssuer(t *testing.T, ttl time.Duration) *SessionIssuer {
	t.Helper()
	s, err := NewSessionIssuer([]byte("0123456789abcdef"), ttl)
	require.NoError(t, err)
	return s
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newIssuer(t, time.Hour)

	tok, exp, err := s.Issue(testPrincipal)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	p, err := s.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, testPrincipal, *p)
}

func TestNewSessionIssuer(t *testing.T) {
	t.Parallel()

	_, err := NewSessionIssuer(nil, time.Hour)
	assert.Error(t, err)

	s, err := NewSessionIssuer([]byte("k"), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionTTL, s.TTL())
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	s := newIssuer(t, time.Hour)

	issued := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issued }
	tok, _, err := s.Issue(testPrincipal)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestVerify_Tampered(t *testing.T) {
	t.Parallel()
	s := newIssuer(t, time.Hour)

	tok, _, err := s.Issue(testPrincipal)
	require.NoError(t, err)

	i := strings.LastIndex(tok, ".") + 5
	repl := byte('A')
	if tok[i] == 'A' {
		repl = 'B'
	}
	_, err = s.Verify(tok[:i] + string(repl) + tok[i+1:])
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestVerify_PayloadSwappedKeepsSignature(t *testing.T) {
	t.Parallel()
	s := newIssuer(t, time.Hour)

	tok, _, err := s.Issue(testPrincipal)
	require.NoError(t, err)
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	for _, swap := range [][2]string{
		{testPrincipal.Email, "root@bytonbyte.com"},
		{testPrincipal.ID, "00000000-0000-0000-0000-000000000001"},
	} {
		forged := strings.Replace(string(payload), swap[0], swap[1], 1)
		require.NotEqual(t, string(payload), forged)

		parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))
		_, err = s.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, common.ErrInvalidSession, swap[1])
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	tok, _, err := newIssuer(t, time.Hour).Issue(testPrincipal)
	require.NoError(t, err)

	other, err := NewSessionIssuer([]byte("another-secret-key"), time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()
	s := newIssuer(t, time.Hour)
	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := s.Verify(tok)
		assert.ErrorIs(t, err, common.ErrInvalidSession, tok)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	s := newIssuer(t, time.Hour)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testPrincipal.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(s.secret)
	require.NoError(t, err)

	_, err = s.Verify(tok)
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}

func TestVerify_MissingSubjectOrExpiry(t *testing.T) {
	t.Parallel()
	s := newIssuer(t, time.Hour)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString(s.secret)
	require.NoError(t, err)
	_, err = s.Verify(noSub)
	assert.ErrorIs(t, err, common.ErrInvalidSession)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: testPrincipal.ID},
	}).SignedString(s.secret)
	require.NoError(t, err)
	_, err = s.Verify(noExp)
	assert.ErrorIs(t, err, common.ErrInvalidSession)
}
