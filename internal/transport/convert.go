package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func uuidPtr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func ToUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, ToUserDTO(&users[i]))
	}
	return out
}

func ToTableDTO(t *models.Table) TableDTO {
	return TableDTO{
		ID:            t.ID.String(),
		TableNumber:   t.TableNumber,
		BookingID:     uuidPtr(t.BookingID),
		UserID:        uuidPtr(t.UserID),
		BookingDate:   t.BookingDate,
		BookingTime:   t.BookingTime,
		BookingStatus: string(t.BookingStatus),
		IsBooked:      t.IsBooked,
	}
}

func ToTableDTOs(tables []models.Table) []TableDTO {
	out := make([]TableDTO, 0, len(tables))
	for i := range tables {
		out = append(out, ToTableDTO(&tables[i]))
	}
	return out
}

func ToBookingDTO(b *models.TableBooking, tables []models.Table) BookingDTO {
	return BookingDTO{
		ID:        b.ID.String(),
		UserID:    b.UserID.String(),
		Date:      b.Date,
		Time:      b.Time,
		Status:    string(b.Status),
		CreatedAt: formatTime(b.CreatedAt),
		Tables:    ToTableDTOs(tables),
	}
}

func ToFoodItemDTO(f *models.FoodItem) FoodItemDTO {
	return FoodItemDTO{
		ID:          f.ID.String(),
		Name:        f.Name,
		Description: f.Description,
		Price:       f.Price,
		ImageURL:    f.ImageURL,
		Category:    f.Category,
	}
}

func ToFoodItemDTOs(items []models.FoodItem) []FoodItemDTO {
	out := make([]FoodItemDTO, 0, len(items))
	for i := range items {
		out = append(out, ToFoodItemDTO(&items[i]))
	}
	return out
}

func ToOrderDTO(o *models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemDTO{
			FoodID:    it.FoodID.String(),
			Name:      it.Food.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return OrderDTO{
		ID:         o.ID.String(),
		UserID:     o.UserID.String(),
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  formatTime(o.CreatedAt),
		Items:      items,
	}
}

func ToOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderDTO(&orders[i]))
	}
	return out
}

func ToReceiptDTO(r *models.Receipt) ReceiptDTO {
	return ReceiptDTO{
		ID:        r.ID.String(),
		OrderID:   r.OrderID.String(),
		FilePath:  r.FilePath,
		Total:     r.Total,
		CreatedAt: formatTime(r.CreatedAt),
	}
}
