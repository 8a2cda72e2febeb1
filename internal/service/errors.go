package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/pkg/db"
)

var (
	ErrValidation         = errors.New("validation")          // 400
	ErrNotFound           = errors.New("not found")           // 404
	ErrConflict           = errors.New("conflict")            // 400
	ErrAlreadyExists      = errors.New("already exists")      // 400
	ErrInvalidCredentials = errors.New("invalid credentials") // 401
)

// notFound maps gorm's missing-row error onto ErrNotFound and leaves others intact.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}

func duplicate(err error, what string) error {
	if db.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, what)
	}
	return err
}
