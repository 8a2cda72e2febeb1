package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodGet, "/health/live", nil, "").Code)
	require.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodGet, "/health/ready", nil, "").Code)
	require.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodGet, "/metrics", nil, "").Code)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodPost, "/users", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decode[map[string]string](t, rec)
	require.Equal(t, "User registered successfully", reg["message"])
	require.NotEmpty(t, reg["user_id"])

	rec = env.doJSONRequest(http.MethodPost, "/users", map[string]string{
		"name": "Ann", "email": "ann@example.com", "password": "secret1",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/users", map[string]string{
		"name": "Bob", "email": "bob@example.com", "password": "123",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "password must be at least 6")

	rec = env.doJSONRequest(http.MethodPost, "/users/login", map[string]string{"email": "ann@example.com", "password": "nope"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/users/login", map[string]string{"email": "ann@example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[loginResp](t, rec)
	require.Equal(t, reg["user_id"], resp.UserID)
	require.Equal(t, "user", resp.Role)

	names := map[string]bool{}
	for _, ck := range rec.Result().Cookies() {
		names[ck.Name] = ck.HttpOnly
	}
	require.True(t, names[tokens.AccessCookie])
	require.True(t, names[tokens.RefreshCookie])
}

func TestRefreshAndLogout(t *testing.T) {
	env := newTestEnv(t)
	ann := env.signup("Ann", "ann@example.com")

	rec := env.doJSONRequest(http.MethodPost, "/users/refresh", map[string]string{"refresh_token": ann.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fresh := decode[map[string]string](t, rec)
	require.NotEmpty(t, fresh["access_token"])

	rec = env.doJSONRequest(http.MethodPost, "/users/refresh", map[string]string{"refresh_token": ann.RefreshToken}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/users/logout", map[string]string{"refresh_token": fresh["refresh_token"]}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/users/refresh", map[string]string{"refresh_token": fresh["refresh_token"]}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUser_Ownership(t *testing.T) {
	env := newTestEnv(t)
	ann := env.signup("Ann", "ann@example.com")
	bob := env.signup("Bob", "bob@example.com")
	admin := env.admin()

	rec := env.doJSONRequest(http.MethodGet, "/users/"+ann.UserID, nil, ann.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Ann", decode[map[string]any](t, rec)["name"])

	rec = env.doJSONRequest(http.MethodGet, "/users/"+ann.UserID, nil, bob.AccessToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/users/not-a-uuid", nil, admin.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/users", nil, ann.AccessToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/users", nil, admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]map[string]any](t, rec), 3)

	rec = env.doJSONRequest(http.MethodGet, "/users", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
