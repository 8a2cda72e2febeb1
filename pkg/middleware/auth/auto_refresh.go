package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Refresher rotates a refresh token into a new pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*tokens.Pair, error)
}

type AutoRefreshMiddleware struct {
	JWTSecret []byte
	Refresher Refresher
}

func NewAutoRefreshMiddleware(secret []byte, r Refresher) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret: secret,
		Refresher: r,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func accessTokenFrom(c echo.Context) (string, bool) {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")), false
	}
	if ck, err := c.Cookie(tokens.AccessCookie); err == nil && ck.Value != "" {
		return ck.Value, true
	}
	return "", false
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// an outer auth middleware already authenticated this request
		if uid, ok := c.Get(CtxUserID).(string); ok && uid != "" {
			if validator != nil {
				role, _ := c.Get(CtxRole).(string)
				if validationErr := validator(&tokens.AccessClaims{Role: role}); validationErr != nil {
					return validationErr
				}
			}
			return next(c)
		}

		raw, fromCookie := accessTokenFrom(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(raw, m.JWTSecret)
		if err == nil && claims != nil {
			if validator != nil {
				if validationErr := validator(claims); validationErr != nil {
					return validationErr
				}
			}
			setUserContext(c, claims)
			return next(c)
		}

		// bearer clients refresh explicitly through /users/refresh
		if !fromCookie || !errors.Is(err, jwt.ErrTokenExpired) || m.Refresher == nil {
			if fromCookie {
				clearAuthCookies(c)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie(tokens.RefreshCookie)
		if rErr != nil || refreshCookie.Value == "" {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		pair, refErr := m.Refresher.Refresh(c.Request().Context(), refreshCookie.Value)
		if refErr != nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
		}

		c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, pair.AccessToken, "/", pair.AccessExp))
		c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp))

		newClaims, pErr := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if pErr != nil || newClaims == nil {
			clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
		}

		if validator != nil {
			if validationErr := validator(newClaims); validationErr != nil {
				return validationErr
			}
		}

		setUserContext(c, newClaims)
		return next(c)
	}
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxUserID, claims.Subject)
	c.Set(CtxRole, claims.Role)
}
