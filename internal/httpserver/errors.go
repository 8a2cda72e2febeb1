package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
)

var statusBySentinel = []struct {
	err  error
	code int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrConflict, http.StatusBadRequest},
	{service.ErrAlreadyExists, http.StatusBadRequest},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
}

// fail logs err under event and converts it to an *echo.HTTPError.
// Domain errors keep their detail; anything else becomes a 500 with fallback as the message.
func fail(l *zap.SugaredLogger, event string, err error, fallback string) error {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			msg := strings.TrimPrefix(err.Error(), s.err.Error()+": ")
			l.Warnw(event, "status", s.code, "error", err)
			return echo.NewHTTPError(s.code, msg)
		}
	}
	l.Errorw(event, "status", http.StatusInternalServerError, "reason", fallback, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, fallback)
}

func badRequest(l *zap.SugaredLogger, event, reason string, err error) error {
	l.Warnw(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func forbidden(l *zap.SugaredLogger, event string) error {
	l.Warnw(event, "status", http.StatusForbidden, "reason", "not the owner")
	return echo.NewHTTPError(http.StatusForbidden, "access denied")
}

// Validator plugs the request DTO tags into echo.
type Validator struct{}

func (Validator) Validate(i any) error {
	err := transport.Validate(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, describeField(fe))
	}
	return errors.New(strings.Join(parts, "; "))
}

func describeField(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "uuid":
		return field + " must be a UUID"
	case "url":
		return field + " must be a URL"
	case "min", "gte":
		return field + " must be at least " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of " + fe.Param()
	}
	return field + " is invalid"
}

// bindAndValidate decodes the body into req and runs the tag validation.
func bindAndValidate(c echo.Context, l *zap.SugaredLogger, event string, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest(l, event, "invalid body", err)
	}
	if err := c.Validate(req); err != nil {
		return badRequest(l, event, err.Error(), err)
	}
	return nil
}
