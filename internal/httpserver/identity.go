package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Skotchmaster/restaurant/internal/models"
	middleware "github.com/Skotchmaster/restaurant/pkg/middleware/auth"
)

var errUnauthorized = errors.New("unauthorized")

type identity struct {
	UserID uuid.UUID
	Role   string
}

func (id identity) admin() bool { return id.Role == models.RoleAdmin }

// owns reports whether the caller may act on a resource belonging to owner.
func (id identity) owns(owner string) bool {
	return id.admin() || owner == id.UserID.String()
}

// caller reads the identity the auth middleware put on the context.
func caller(c echo.Context) (identity, error) {
	s, ok := c.Get(middleware.CtxUserID).(string)
	if !ok || s == "" {
		return identity{}, errUnauthorized
	}
	userID, err := uuid.Parse(s)
	if err != nil {
		return identity{}, errUnauthorized
	}
	role, _ := c.Get(middleware.CtxRole).(string)
	return identity{UserID: userID, Role: role}, nil
}

func requireCaller(c echo.Context, l *zap.SugaredLogger, event string) (identity, error) {
	id, err := caller(c)
	if err != nil {
		l.Warnw(event, "status", http.StatusUnauthorized, "error", err)
		return identity{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
