package httpapi

import (
	"net/http"
	"testing"

	"github.com/dmitrijs2005/bytonbyte/internal/common"
	"github.com/dmitrijs2005/bytonbyte/internal/server/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_SetsCookieAndReturnsSession(t *testing.T) {
	env := newTestEnv(t)
	v := env.provision("admin@example.com", "Secret123")

	rec := env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ADMIN@example.com", "password": "Secret123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[loginResponse](t, rec)
	assert.Equal(t, v.ID, resp.ID)
	assert.Equal(t, "admin@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, common.SessionCookieName, cookies[0].Name)
	assert.Equal(t, resp.Token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	p, err := env.sessions.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, v.ID, p.ID)
}

func TestLogin_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.provision("admin@example.com", "Secret123")

	rec := env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())

	unknown := env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ghost@example.com", "password": "Secret123"}, "")
	assert.Equal(t, rec.Code, unknown.Code)
	assert.Equal(t, rec.Body.String(), unknown.Body.String())

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "", "password": ""}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeBadPassword)))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeUnknownEmail)))
}

func TestLogin_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/auth/login", "not an object", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.LoginRateLimit = 2 })

	body := map[string]string{"email": "x@example.com", "password": "nope"}
	for i := 0; i < 2; i++ {
		rec := env.do(http.MethodPost, "/api/auth/login", body, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	rec := env.do(http.MethodPost, "/api/auth/login", body, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/api/auth/logout", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestChangePassword_Endpoint(t *testing.T) {
	env := newTestEnv(t)
	env.provision("admin@example.com", "Secret123")
	tok := env.token("admin@example.com", "Secret123")

	rec := env.do(http.MethodPost, "/api/settings/change-password", map[string]string{
		"currentPassword": "wrong", "newPassword": "NewSecret1", "confirmPassword": "NewSecret1",
	}, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Current password is incorrect"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/settings/change-password", map[string]string{
		"currentPassword": "Secret123", "newPassword": "abc", "confirmPassword": "abc",
	}, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Password must be at least 6 characters"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/settings/change-password", map[string]string{
		"currentPassword": "Secret123", "newPassword": "NewSecret1", "confirmPassword": "NewSecret1",
	}, tok)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@example.com", "password": "Secret123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env.token("admin@example.com", "NewSecret1")
}
