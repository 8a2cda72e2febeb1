package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/internal/util"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

// MenuIndex is the optional full-text index over food items.
type MenuIndex interface {
	IndexFood(ctx context.Context, f *models.FoodItem) error
	IndexAll(ctx context.Context, items []models.FoodItem) (int, error)
	Search(ctx context.Context, query string, from, size int) (int64, []transport.FoodItemDTO, error)
}

type MenuService struct {
	Repo  *repo.GormRepo
	Index MenuIndex
}

func (s *MenuService) AddFoodItem(ctx context.Context, req transport.CreateFoodItemRequest) (*transport.FoodItemDTO, error) {
	l := logging.FromContext(ctx).With("svc", "menu.add_food_item")

	name := strings.TrimSpace(req.Name)
	category := strings.TrimSpace(req.Category)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category required", ErrValidation)
	}
	if req.Price <= 0 || math.IsNaN(req.Price) || math.IsInf(req.Price, 0) {
		return nil, fmt.Errorf("%w: price must be > 0", ErrValidation)
	}

	taken, err := s.Repo.FoodNameTaken(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: food item %q already exists", ErrAlreadyExists, name)
	}

	item := models.FoodItem{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Price:       roundCents(req.Price),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Category:    category,
	}
	if err := s.Repo.CreateFoodItem(ctx, &item); err != nil {
		return nil, duplicate(err, fmt.Sprintf("food item %q already exists", name))
	}

	if s.Index != nil {
		if err := s.Index.IndexFood(ctx, &item); err != nil {
			l.Warnw("index_food_failed", "food_id", item.ID, "error", err)
		}
	}

	dto := transport.ToFoodItemDTO(&item)
	return &dto, nil
}

func (s *MenuService) ListFoodItems(ctx context.Context, category string) ([]transport.FoodItemDTO, error) {
	items, err := s.Repo.ListFoodItems(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	return transport.ToFoodItemDTOs(items), nil
}

func (s *MenuService) ListCategories(ctx context.Context) ([]string, error) {
	cats, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []string{}
	}
	return cats, nil
}

// Reindex pushes every stored food item into the index. Items added while the
// index was unreachable only become searchable there after a reindex.
func (s *MenuService) Reindex(ctx context.Context) (int, error) {
	if s.Index == nil {
		return 0, nil
	}
	items, err := s.Repo.ListFoodItems(ctx, "")
	if err != nil {
		return 0, err
	}
	n, err := s.Index.IndexAll(ctx, items)
	if err != nil {
		return n, err
	}
	logging.FromContext(ctx).Infow("menu_reindexed", "items", n)
	return n, nil
}

// SearchFoodItems uses the index when configured. The database answers when
// there is no index, the index fails, or the index has no hits.
func (s *MenuService) SearchFoodItems(ctx context.Context, query string, page, size int) (int64, []transport.FoodItemDTO, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("%w: q required", ErrValidation)
	}
	offset, limit := util.Calculate(page, size)

	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, query, offset, limit)
		switch {
		case err != nil:
			logging.FromContext(ctx).Warnw("menu_search_index_failed", "error", err)
		case total > 0:
			return total, items, nil
		}
	}

	total, items, err := s.Repo.SearchFoodItems(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	return total, transport.ToFoodItemDTOs(items), nil
}
