package httpserver

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/internal/util"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	id, err := requireCaller(c, l, "place_order_error")
	if err != nil {
		return err
	}

	var req transport.PlaceOrderRequest
	if err := bindAndValidate(c, l, "place_order_error", &req); err != nil {
		return err
	}
	if req.UserID == "" {
		req.UserID = id.UserID.String()
	}
	if !id.owns(req.UserID) {
		return forbidden(l, "place_order_error")
	}

	order, err := h.Svc.PlaceOrder(ctx, req)
	if err != nil {
		return fail(l, "place_order_error", err, "cannot place order")
	}

	l.Infow("place_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// ListOrders pages through orders. Admins may filter with ?user_id; other callers see only their own.
func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	id, err := requireCaller(c, l, "list_orders_error")
	if err != nil {
		return err
	}

	var filter *uuid.UUID
	switch {
	case !id.admin():
		filter = &id.UserID
	case c.QueryParam("user_id") != "":
		u, err := uuid.Parse(c.QueryParam("user_id"))
		if err != nil {
			return badRequest(l, "list_orders_error", "invalid user_id", err)
		}
		filter = &u
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListOrders(ctx, filter, offset, limit)
	if err != nil {
		return fail(l, "list_orders_error", err, "cannot list orders")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	id, err := requireCaller(c, l, "get_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_order_error", err, "cannot get order")
	}
	if !id.owns(order.UserID) {
		return forbidden(l, "get_order_error")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	var req transport.UpdateStatusRequest
	if err := bindAndValidate(c, l, "update_order_error", &req); err != nil {
		return err
	}

	order, err := h.Svc.UpdateOrderStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return fail(l, "update_order_error", err, "cannot update order")
	}

	l.Infow("update_order_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	if err := h.Svc.DeleteOrder(ctx, c.Param("id")); err != nil {
		return fail(l, "delete_order_error", err, "cannot delete order")
	}

	l.Infow("delete_order_success", "order_id", c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"message": "Order deleted successfully"})
}

func (h *OrderHTTP) SendOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.send")

	resp, err := h.Svc.SendOrder(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "send_order_error", err, "cannot send order")
	}
	return c.JSON(http.StatusOK, resp)
}

// DownloadReceipt streams the stored PDF for a sent order.
func (h *OrderHTTP) DownloadReceipt(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.receipt")

	id, err := requireCaller(c, l, "download_receipt_error")
	if err != nil {
		return err
	}
	if !id.admin() {
		order, err := h.Svc.GetOrder(ctx, c.Param("id"))
		if err != nil {
			return fail(l, "download_receipt_error", err, "cannot load receipt")
		}
		if !id.owns(order.UserID) {
			return forbidden(l, "download_receipt_error")
		}
	}

	rc, body, err := h.Svc.OpenReceipt(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "download_receipt_error", err, "cannot load receipt")
	}
	defer body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "receipt_"+rc.OrderID+".pdf"))
	c.Response().Header().Set("X-Receipt-ID", rc.ID)
	return c.Stream(http.StatusOK, "application/pdf", body)
}
