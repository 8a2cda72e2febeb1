package transport

import "encoding/json"

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateBookingRequest.Date is DD-MM-YYYY; Time is HH:MM or HH:MM:SS.
type CreateBookingRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Date   string `json:"date"    validate:"required"`
	Time   string `json:"time"    validate:"required"`
}

type AssignTableRequest struct {
	TableNumber int `json:"table_number" validate:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type BookingDTO struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	Status    string     `json:"status"`
	CreatedAt string     `json:"created_at"`
	Tables    []TableDTO `json:"tables"`
}

type AssignTableResponse struct {
	Message string     `json:"message"`
	Table   TableDTO   `json:"table"`
	Booking BookingDTO `json:"booking"`
}

type CreateTableRequest struct {
	TableNumber int `json:"table_number" validate:"required,gt=0"`
}

type TableDTO struct {
	ID            string  `json:"id"`
	TableNumber   int     `json:"table_number"`
	BookingID     *string `json:"booking_id"`
	UserID        *string `json:"user_id"`
	BookingDate   *string `json:"booking_date"`
	BookingTime   *string `json:"booking_time"`
	BookingStatus string  `json:"booking_status"`
	IsBooked      bool    `json:"is_booked"`
}

type CreateFoodItemRequest struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
	ImageURL    string  `json:"image_url"   validate:"omitempty,url,max=255"`
	Category    string  `json:"category"    validate:"required,max=50"`
}

type FoodItemDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
}

// OrderItemRequest.Price is optional. When present it must match the menu price,
// which is always the price charged.
type OrderItemRequest struct {
	Name     string   `json:"name"     validate:"required"`
	Quantity int      `json:"quantity" validate:"required,gt=0"`
	Price    *float64 `json:"price"`
}

type PlaceOrderRequest struct {
	UserID string             `json:"user_id" validate:"omitempty,uuid"`
	Items  []OrderItemRequest `json:"items"   validate:"required,min=1,dive"`
}

// UnmarshalJSON also accepts the item list under "order_items"; "items" wins when both are sent.
func (r *PlaceOrderRequest) UnmarshalJSON(data []byte) error {
	type plain PlaceOrderRequest
	var aux struct {
		plain
		OrderItems []OrderItemRequest `json:"order_items"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = PlaceOrderRequest(aux.plain)
	if len(r.Items) == 0 {
		r.Items = aux.OrderItems
	}
	return nil
}

type OrderItemDTO struct {
	FoodID    string  `json:"food_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderDTO struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	TotalPrice float64        `json:"total_price"`
	Status     string         `json:"status"`
	CreatedAt  string         `json:"created_at"`
	Items      []OrderItemDTO `json:"items"`
}

type ReceiptDTO struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	FilePath  string  `json:"file_path"`
	Total     float64 `json:"total"`
	CreatedAt string  `json:"created_at"`
}

type SendOrderResponse struct {
	Message string     `json:"message"`
	Order   OrderDTO   `json:"order"`
	Receipt ReceiptDTO `json:"receipt"`
}
