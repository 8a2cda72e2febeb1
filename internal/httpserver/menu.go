package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/internal/util"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type MenuHTTP struct {
	Svc *service.MenuService
}

func (h *MenuHTTP) AddFoodItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.add")

	var req transport.CreateFoodItemRequest
	if err := bindAndValidate(c, l, "add_food_item_error", &req); err != nil {
		return err
	}

	item, err := h.Svc.AddFoodItem(ctx, req)
	if err != nil {
		return fail(l, "add_food_item_error", err, "cannot add food item")
	}

	l.Infow("add_food_item_success", "food_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHTTP) ListFoodItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list")

	items, err := h.Svc.ListFoodItems(ctx, c.QueryParam("category"))
	if err != nil {
		return fail(l, "list_food_items_error", err, "cannot list menu")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err, "cannot list categories")
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": cats})
}

func (h *MenuHTTP) SearchFoodItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchFoodItems(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return fail(l, "search_food_items_error", err, "cannot search menu")
	}

	l.Infow("search_food_items_success", "total", total)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.Meta(page, offset, limit, total),
	})
}
