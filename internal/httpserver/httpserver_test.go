package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/receipt"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/pkg/db"
)

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	Repo  *repo.GormRepo
	Users *service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	r := repo.New(gdb)
	require.NoError(t, r.Migrate(ctx))

	store, err := receipt.NewFileStore(t.TempDir())
	require.NoError(t, err)

	users := &service.UserService{
		Repo:          r,
		AccessSecret:  []byte("test-access-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	}
	require.NoError(t, users.EnsureAdmin(ctx, "Admin", "admin@example.com", "adminpass"))

	e := echo.New()
	Register(e, &Deps{
		Users:     &UserHTTP{Svc: users},
		Bookings:  &BookingHTTP{Svc: &service.BookingService{Repo: r, MaxPerUser: 2}},
		Tables:    &TableHTTP{Svc: &service.TableService{Repo: r}},
		Menu:      &MenuHTTP{Svc: &service.MenuService{Repo: r}},
		Orders:    &OrderHTTP{Svc: &service.OrderService{Repo: r, Renderer: receipt.Renderer{}, Store: store}},
		JWTSecret: users.AccessSecret,
		Refresher: users,
		Ready:     r.Ping,
	})

	return &testEnv{T: t, E: e, Repo: r, Users: users}
}

func (env *testEnv) doJSONRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type loginResp struct {
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (env *testEnv) login(email, password string) loginResp {
	env.T.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/users/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())
	return decode[loginResp](env.T, rec)
}

func (env *testEnv) signup(name, email string) loginResp {
	env.T.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/users", map[string]string{
		"name": name, "email": email, "password": "secret1",
	}, "")
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
	return env.login(email, "secret1")
}

func (env *testEnv) admin() loginResp {
	env.T.Helper()
	return env.login("admin@example.com", "adminpass")
}
