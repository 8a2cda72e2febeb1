package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/restaurant/internal/models"
)

var activeBookingStatuses = []models.BookingStatus{models.BookingPending, models.BookingConfirmed}

func (r *GormRepo) CountActiveBookings(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.TableBooking{}).
		Where("user_id = ? AND status IN ?", userID, activeBookingStatuses).
		Count(&count).Error
	return count, err
}

func (r *GormRepo) CreateBooking(ctx context.Context, b *models.TableBooking) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) GetBooking(ctx context.Context, id uuid.UUID) (*models.TableBooking, error) {
	var b models.TableBooking
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepo) ListBookings(ctx context.Context) ([]models.TableBooking, error) {
	var out []models.TableBooking
	if err := r.DB.WithContext(ctx).Order("date ASC, time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListBookingsByUser(ctx context.Context, userID uuid.UUID) ([]models.TableBooking, error) {
	var out []models.TableBooking
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("date ASC, time ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status models.BookingStatus) error {
	return r.DB.WithContext(ctx).Model(&models.TableBooking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *GormRepo) DeleteBooking(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.TableBooking{})
	return res.RowsAffected, res.Error
}
