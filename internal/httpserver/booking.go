package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type BookingHTTP struct {
	Svc *service.BookingService
}

func (h *BookingHTTP) CreateBooking(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.create")

	id, err := requireCaller(c, l, "create_booking_error")
	if err != nil {
		return err
	}

	var req transport.CreateBookingRequest
	if err := bindAndValidate(c, l, "create_booking_error", &req); err != nil {
		return err
	}
	if req.UserID == "" {
		req.UserID = id.UserID.String()
	}
	if !id.owns(req.UserID) {
		return forbidden(l, "create_booking_error")
	}

	booking, err := h.Svc.CreateBooking(ctx, req)
	if err != nil {
		return fail(l, "create_booking_error", err, "cannot create booking")
	}

	l.Infow("create_booking_success", "booking_id", booking.ID)
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHTTP) GetBooking(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.get")

	id, err := requireCaller(c, l, "get_booking_error")
	if err != nil {
		return err
	}

	booking, err := h.Svc.GetBooking(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_booking_error", err, "cannot get booking")
	}
	if !id.owns(booking.UserID) {
		return forbidden(l, "get_booking_error")
	}
	return c.JSON(http.StatusOK, booking)
}

// ListBookings returns every booking to admins and the caller's own bookings to everyone else.
func (h *BookingHTTP) ListBookings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.list")

	id, err := requireCaller(c, l, "list_bookings_error")
	if err != nil {
		return err
	}

	var bookings []transport.BookingDTO
	if id.admin() {
		bookings, err = h.Svc.ListBookings(ctx)
	} else {
		bookings, err = h.Svc.ListBookingsByUser(ctx, id.UserID.String())
	}
	if err != nil {
		return fail(l, "list_bookings_error", err, "cannot list bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHTTP) ListUserBookings(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.list_by_user")

	id, err := requireCaller(c, l, "list_user_bookings_error")
	if err != nil {
		return err
	}
	userID := c.Param("user_id")
	if !id.owns(userID) {
		return forbidden(l, "list_user_bookings_error")
	}

	bookings, err := h.Svc.ListBookingsByUser(ctx, userID)
	if err != nil {
		return fail(l, "list_user_bookings_error", err, "cannot list bookings")
	}
	return c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatus lets admins apply any permitted transition; owners may only cancel.
func (h *BookingHTTP) UpdateBookingStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.update_status")

	id, err := requireCaller(c, l, "update_booking_error")
	if err != nil {
		return err
	}

	var req transport.UpdateStatusRequest
	if err := bindAndValidate(c, l, "update_booking_error", &req); err != nil {
		return err
	}

	if !id.admin() {
		current, err := h.Svc.GetBooking(ctx, c.Param("id"))
		if err != nil {
			return fail(l, "update_booking_error", err, "cannot update booking")
		}
		if !id.owns(current.UserID) || req.Status != string(models.BookingAvailable) {
			return forbidden(l, "update_booking_error")
		}
	}

	booking, err := h.Svc.UpdateBookingStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return fail(l, "update_booking_error", err, "cannot update booking")
	}

	l.Infow("update_booking_success", "booking_id", booking.ID, "status", booking.Status)
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHTTP) DeleteBooking(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.delete")

	id, err := requireCaller(c, l, "delete_booking_error")
	if err != nil {
		return err
	}
	if !id.admin() {
		current, err := h.Svc.GetBooking(ctx, c.Param("id"))
		if err != nil {
			return fail(l, "delete_booking_error", err, "cannot delete booking")
		}
		if !id.owns(current.UserID) {
			return forbidden(l, "delete_booking_error")
		}
	}

	if err := h.Svc.DeleteBooking(ctx, c.Param("id")); err != nil {
		return fail(l, "delete_booking_error", err, "cannot delete booking")
	}

	l.Infow("delete_booking_success", "booking_id", c.Param("id"))
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking deleted successfully"})
}

func (h *BookingHTTP) AssignTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "booking.assign_table")

	var req transport.AssignTableRequest
	if err := bindAndValidate(c, l, "assign_table_error", &req); err != nil {
		return err
	}

	resp, err := h.Svc.AssignTable(ctx, c.Param("id"), req.TableNumber)
	if err != nil {
		return fail(l, "assign_table_error", err, "cannot assign table")
	}
	return c.JSON(http.StatusOK, resp)
}
