package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviebook/moviebook/internal/utils"
)

type staticResolver struct {
	token string
	uid   uint64
}

func (r staticResolver) CurrentUser(ctx context.Context, raw string) (uint64, bool, error) {
	if raw == r.token {
		return r.uid, true, nil
	}
	return 0, false, nil
}

func runAuth(t *testing.T, secret string, resolver SessionResolver, decorate func(*http.Request)) (*httptest.ResponseRecorder, interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
	decorate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenUserID interface{}
	next := func(c echo.Context) error {
		seenUserID = c.Get("user_id")
		return c.NoContent(http.StatusOK)
	}
	err := Auth(secret, resolver)(next)(c)
	require.NoError(t, err)
	return rec, seenUserID
}

func TestAuthBearerToken(t *testing.T) {
	const secret = "s3cret"
	access, err := utils.NewAccessToken(secret, 77, 15)
	require.NoError(t, err)

	rec, uid := runAuth(t, secret, nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access.Token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(77), uid)
}

func TestAuthRejectsBadBearer(t *testing.T) {
	rec, uid := runAuth(t, "s3cret", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-jwt")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, uid)
}

func TestAuthRejectsForeignSecret(t *testing.T) {
	access, err := utils.NewAccessToken("other-secret", 77, 15)
	require.NoError(t, err)

	rec, _ := runAuth(t, "s3cret", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+access.Token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSessionToken(t *testing.T) {
	resolver := staticResolver{token: "raw-session-token", uid: 12}

	rec, uid := runAuth(t, "s3cret", resolver, func(r *http.Request) {
		r.Header.Set("X-Session-Token", "raw-session-token")
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(12), uid)

	rec, _ = runAuth(t, "s3cret", resolver, func(r *http.Request) {
		r.Header.Set("X-Session-Token", "revoked-or-unknown")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMissingCredentials(t *testing.T) {
	rec, _ := runAuth(t, "s3cret", nil, func(r *http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
