package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"     json:"id"`
	Name         string    `gorm:"size:100;not null"            json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null"                     json:"-"`
	Role         string    `gorm:"size:10;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"     json:"id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"-"`
	UserID    uuid.UUID `gorm:"type:char(36);index;not null" json:"user_id"`
	JTI       string    `gorm:"size:36;uniqueIndex;not null" json:"jti"`
	ExpiresAt int64     `gorm:"not null"                     json:"expires_at"`
	Revoked   bool      `gorm:"default:false"                json:"revoked"`
}

func (t *RefreshToken) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// All returns every model in migration order.
func All() []any {
	return []any{
		&User{},
		&RefreshToken{},
		&TableBooking{},
		&Table{},
		&FoodItem{},
		&Order{},
		&OrderItem{},
		&Receipt{},
	}
}
