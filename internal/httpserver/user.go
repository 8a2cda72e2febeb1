package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

type UserHTTP struct {
	Svc *service.UserService
}

func setAuthCookies(c echo.Context, p *tokens.Pair) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, p.AccessToken, "/", p.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, p.RefreshToken, "/", p.RefreshExp))
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}

// refreshTokenFrom prefers the JSON body and falls back to the cookie.
func refreshTokenFrom(c echo.Context) string {
	var req transport.RefreshRequest
	if err := c.Bind(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		return ck.Value
	}
	return ""
}

func (h *UserHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, l, "register_error", &req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err, "cannot register user")
	}

	l.Infow("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user_id": user.ID,
	})
}

func (h *UserHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.login")

	var req transport.LoginRequest
	if err := bindAndValidate(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_error", err, "cannot log in")
	}

	setAuthCookies(c, &res.Tokens)
	l.Infow("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.LoginResponse{
		Message:      "Login successful",
		UserID:       res.User.ID,
		Role:         res.User.Role,
		AccessToken:  res.Tokens.AccessToken,
		RefreshToken: res.Tokens.RefreshToken,
	})
}

func (h *UserHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.refresh")

	raw := refreshTokenFrom(c)
	if raw == "" {
		l.Warnw("refresh_error", "status", http.StatusUnauthorized, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	pair, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		clearAuthCookies(c)
		return fail(l, "refresh_error", err, "cannot refresh tokens")
	}

	setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, echo.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

func (h *UserHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.logout")

	if raw := refreshTokenFrom(c); raw != "" {
		if err := h.Svc.Logout(ctx, raw); err != nil {
			clearAuthCookies(c)
			l.Errorw("logout_error", "status", 500, "reason", "cannot revoke refresh token", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot revoke refresh token")
		}
	}

	clearAuthCookies(c)
	l.Infow("logout_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	id, err := requireCaller(c, l, "get_user_error")
	if err != nil {
		return err
	}
	if !id.owns(c.Param("id")) {
		return forbidden(l, "get_user_error")
	}

	user, err := h.Svc.GetUser(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_user_error", err, "cannot get user")
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return fail(l, "list_users_error", err, "cannot list users")
	}
	return c.JSON(http.StatusOK, users)
}
