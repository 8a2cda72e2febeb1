package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func (r *GormRepo) CreateTable(ctx context.Context, t *models.Table) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) TableNumberTaken(ctx context.Context, number int) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Table{}).Where("table_number = ?", number).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var t models.Table
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) GetTableByNumber(ctx context.Context, number int) (*models.Table, error) {
	var t models.Table
	if err := r.DB.WithContext(ctx).Where("table_number = ?", number).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) TablesForBooking(ctx context.Context, bookingID uuid.UUID) ([]models.Table, error) {
	var out []models.Table
	if err := r.DB.WithContext(ctx).Where("booking_id = ?", bookingID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// TablesForBookings returns bound tables keyed by booking id.
func (r *GormRepo) TablesForBookings(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.Table, error) {
	out := make(map[uuid.UUID][]models.Table, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var tables []models.Table
	if err := r.DB.WithContext(ctx).Where("booking_id IN ?", ids).Find(&tables).Error; err != nil {
		return nil, err
	}
	for _, t := range tables {
		out[*t.BookingID] = append(out[*t.BookingID], t)
	}
	return out, nil
}

func (r *GormRepo) ListTables(ctx context.Context) ([]models.Table, error) {
	var out []models.Table
	if err := r.DB.WithContext(ctx).Order("table_number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListFreeTables(ctx context.Context) ([]models.Table, error) {
	var out []models.Table
	if err := r.DB.WithContext(ctx).Where("is_booked = ?", false).Order("table_number ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// BindTable claims a free table for the booking. It reports false when another
// writer bound the table first.
func (r *GormRepo) BindTable(ctx context.Context, tableID uuid.UUID, b *models.TableBooking) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Table{}).
		Where("id = ? AND is_booked = ?", tableID, false).
		Updates(map[string]any{
			"booking_id":     b.ID,
			"user_id":        b.UserID,
			"booking_date":   b.Date,
			"booking_time":   b.Time,
			"booking_status": models.BookingConfirmed,
			"is_booked":      true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

var releasedTable = map[string]any{
	"booking_id":     nil,
	"user_id":        nil,
	"booking_date":   nil,
	"booking_time":   nil,
	"booking_status": models.BookingAvailable,
	"is_booked":      false,
}

func (r *GormRepo) ReleaseTable(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(releasedTable).Error
}

func (r *GormRepo) ReleaseTablesForBooking(ctx context.Context, bookingID uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Table{}).Where("booking_id = ?", bookingID).Updates(releasedTable).Error
}
