package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingAvailable BookingStatus = "Available"
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingAvailable, BookingPending, BookingConfirmed:
		return true
	}
	return false
}

// TableBooking.Date is stored as YYYY-MM-DD and Time as HH:MM:SS.
type TableBooking struct {
	ID        uuid.UUID     `gorm:"type:char(36);primaryKey"           json:"id"`
	UserID    uuid.UUID     `gorm:"type:char(36);index;not null"       json:"user_id"`
	Date      string        `gorm:"size:10;not null"                   json:"date"`
	Time      string        `gorm:"size:8;not null"                    json:"time"`
	Status    BookingStatus `gorm:"size:10;not null;default:Pending"   json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

func (b *TableBooking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Table is free when BookingID is nil and IsBooked is false.
type Table struct {
	ID            uuid.UUID     `gorm:"type:char(36);primaryKey"          json:"id"`
	TableNumber   int           `gorm:"uniqueIndex;not null"              json:"table_number"`
	BookingID     *uuid.UUID    `gorm:"type:char(36);uniqueIndex"         json:"booking_id"`
	UserID        *uuid.UUID    `gorm:"type:char(36);index"               json:"user_id"`
	BookingDate   *string       `gorm:"size:10"                           json:"booking_date"`
	BookingTime   *string       `gorm:"size:8"                            json:"booking_time"`
	BookingStatus BookingStatus `gorm:"size:10;not null;default:Available" json:"booking_status"`
	IsBooked      bool          `gorm:"not null;default:false"            json:"is_booked"`
}

func (Table) TableName() string { return "restaurant_tables" }

func (t *Table) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
