package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

var secret = []byte("test-access-secret")

type fakeRefresher struct {
	role  string
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, _ string) (*tokens.Pair, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	exp := time.Now().Add(time.Minute)
	access, err := tokens.SignAccessToken("user-1", f.role, exp, secret)
	if err != nil {
		return nil, err
	}
	return &tokens.Pair{AccessToken: access, RefreshToken: "new-refresh", AccessExp: exp, RefreshExp: exp}, nil
}

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return rec, c, err
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	return he.Code
}

func TestRequireAuth_Bearer(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	tok, err := tokens.SignAccessToken("user-1", "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)

	rec, c, err := run(t, m.RequireAuth, req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", c.Get(CtxUserID))
	require.Equal(t, "user", c.Get(CtxRole))
}

func TestRequireAuth_Missing(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	_, _, err := run(t, m.RequireAuth, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestRequireAdmin_ForbidsUsers(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	tok, err := tokens.SignAccessToken("user-1", "user", time.Now().Add(time.Minute), secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: tok})

	_, _, err = run(t, m.RequireAdmin, req)
	require.Equal(t, http.StatusForbidden, httpCode(t, err))
}

func TestRequireAuth_ExpiredCookieRefreshes(t *testing.T) {
	r := &fakeRefresher{role: "admin"}
	m := NewAutoRefreshMiddleware(secret, r)
	expired, err := tokens.SignAccessToken("user-1", "admin", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: expired})
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"})

	rec, c, err := run(t, m.RequireAdmin, req)
	require.NoError(t, err)
	require.Equal(t, 1, r.calls)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", c.Get(CtxUserID))
	require.Len(t, rec.Result().Cookies(), 2)
}

func TestRequireAuth_ExpiredBearerIsRejected(t *testing.T) {
	r := &fakeRefresher{role: "user"}
	m := NewAutoRefreshMiddleware(secret, r)
	expired, err := tokens.SignAccessToken("user-1", "user", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)

	_, _, err = run(t, m.RequireAuth, req)
	require.Equal(t, http.StatusUnauthorized, httpCode(t, err))
	require.Zero(t, r.calls)
}

func TestRequireAuth_RefreshFailureClearsCookies(t *testing.T) {
	r := &fakeRefresher{err: errors.New("revoked")}
	m := NewAutoRefreshMiddleware(secret, r)
	expired, err := tokens.SignAccessToken("user-1", "user", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: expired})
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"})

	rec, _, err := run(t, m.RequireAuth, req)
	require.Equal(t, http.StatusUnauthorized, httpCode(t, err))
	for _, ck := range rec.Result().Cookies() {
		require.Equal(t, -1, ck.MaxAge)
	}
}

func TestRequireAdmin_NestedAfterRefreshDoesNotRefreshTwice(t *testing.T) {
	r := &fakeRefresher{role: "admin"}
	m := NewAutoRefreshMiddleware(secret, r)
	expired, err := tokens.SignAccessToken("user-1", "admin", time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: expired})
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"})

	rec, _, err := run(t, func(next echo.HandlerFunc) echo.HandlerFunc {
		return m.RequireAuth(m.RequireAdmin(next))
	}, req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, r.calls)
}
