package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderConfirmed OrderStatus = "Confirmed"
	OrderCancelled OrderStatus = "Cancelled"
	OrderDelivered OrderStatus = "Delivered"
	OrderSent      OrderStatus = "Sent"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderCancelled, OrderDelivered, OrderSent:
		return true
	}
	return false
}

type Order struct {
	ID         uuid.UUID   `gorm:"type:char(36);primaryKey"         json:"id"`
	UserID     uuid.UUID   `gorm:"type:char(36);index;not null"     json:"user_id"`
	TotalPrice float64     `gorm:"not null"                         json:"total_price"`
	Status     OrderStatus `gorm:"size:10;not null;default:Pending" json:"status"`
	Items      []OrderItem `gorm:"foreignKey:OrderID"               json:"items"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem.UnitPrice is the menu price at the moment the order was placed.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"         json:"id"`
	OrderID   uuid.UUID `gorm:"type:char(36);index;not null"     json:"order_id"`
	FoodID    uuid.UUID `gorm:"type:char(36);index;not null"     json:"food_id"`
	Food      FoodItem  `gorm:"foreignKey:FoodID"                json:"food"`
	Quantity  int       `gorm:"not null;check:quantity > 0"      json:"quantity"`
	UnitPrice float64   `gorm:"not null"                         json:"unit_price"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type ReceiptLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type Receipt struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey"           json:"id"`
	OrderID   uuid.UUID      `gorm:"type:char(36);uniqueIndex;not null" json:"order_id"`
	FilePath  string         `gorm:"size:512;not null"                  json:"file_path"`
	Items     datatypes.JSON `json:"items"`
	Total     float64        `gorm:"not null"                           json:"total"`
	CreatedAt time.Time      `json:"created_at"`
}

func (r *Receipt) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
