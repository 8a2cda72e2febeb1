package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FoodItem struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"     json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text"                    json:"description"`
	Price       float64   `gorm:"not null"                     json:"price"`
	ImageURL    string    `gorm:"size:255"                     json:"image_url"`
	Category    string    `gorm:"size:50;index;not null"       json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

func (f *FoodItem) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
