package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/restaurant/internal/models"
)

var ErrTokenRevoked = errors.New("token expired or revoked")

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// LockUser takes a row lock on the user for the rest of the transaction.
// Dialects without FOR UPDATE (sqlite) ignore the clause.
func (r *GormRepo) LockUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	q := r.DB.WithContext(ctx)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) FindRefreshByJTI(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *GormRepo) refreshExpiredOrRevoked(ctx context.Context, db *gorm.DB, jti string) (bool, error) {
	var refresh models.RefreshToken
	if err := db.WithContext(ctx).Where("jti = ?", jti).First(&refresh).Error; err != nil {
		return false, err
	}
	return refresh.ExpiresAt < time.Now().Unix() || refresh.Revoked, nil
}

// RotateRefreshToken revokes oldJTI and stores newToken atomically.
// A conditional update guards against two concurrent rotations of the same token.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, newToken *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expired, err := r.refreshExpiredOrRevoked(ctx, tx, oldJTI)
		if err != nil {
			return err
		}
		if expired {
			return ErrTokenRevoked
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ?", oldJTI, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenRevoked
		}

		return tx.Create(newToken).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokenHash).
		Update("revoked", true).Error
}
