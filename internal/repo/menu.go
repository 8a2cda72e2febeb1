package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func (r *GormRepo) CreateFoodItem(ctx context.Context, f *models.FoodItem) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) FoodNameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.FoodItem{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) GetFoodItem(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var f models.FoodItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// FoodItemsByName returns the items whose names are in names, keyed by name.
func (r *GormRepo) FoodItemsByName(ctx context.Context, names []string) (map[string]models.FoodItem, error) {
	var items []models.FoodItem
	if err := r.DB.WithContext(ctx).Where("name IN ?", names).Find(&items).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.FoodItem, len(items))
	for _, it := range items {
		out[it.Name] = it
	}
	return out, nil
}

func (r *GormRepo) ListFoodItems(ctx context.Context, category string) ([]models.FoodItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.FoodItem{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var out []models.FoodItem
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.DB.WithContext(ctx).Model(&models.FoodItem{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &out).Error
	return out, err
}

// SearchFoodItems is the database fallback for menu search.
func (r *GormRepo) SearchFoodItems(ctx context.Context, query string, offset, limit int) (int64, []models.FoodItem, error) {
	like := "%" + strings.ToLower(query) + "%"
	matches := func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.FoodItem{}).Scopes(matches).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var out []models.FoodItem
	if err := r.DB.WithContext(ctx).Scopes(matches).Order("name ASC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return 0, nil, err
	}
	return total, out, nil
}
