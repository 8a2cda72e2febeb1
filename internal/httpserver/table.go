package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

type TableHTTP struct {
	Svc *service.TableService
}

func (h *TableHTTP) CreateTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.create")

	var req transport.CreateTableRequest
	if err := bindAndValidate(c, l, "create_table_error", &req); err != nil {
		return err
	}

	table, err := h.Svc.CreateTable(ctx, req)
	if err != nil {
		return fail(l, "create_table_error", err, "cannot create table")
	}

	l.Infow("create_table_success", "table_number", table.TableNumber)
	return c.JSON(http.StatusCreated, table)
}

func (h *TableHTTP) FreeTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.free")

	table, err := h.Svc.FreeTable(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "free_table_error", err, "cannot free table")
	}

	l.Infow("free_table_success", "table_number", table.TableNumber)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Table freed successfully",
		"table":   table,
	})
}

func (h *TableHTTP) GetTable(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.get")

	table, err := h.Svc.GetTable(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_table_error", err, "cannot get table")
	}
	return c.JSON(http.StatusOK, table)
}

func (h *TableHTTP) ListTables(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.list")

	tables, err := h.Svc.ListTables(ctx)
	if err != nil {
		return fail(l, "list_tables_error", err, "cannot list tables")
	}
	return c.JSON(http.StatusOK, tables)
}

func (h *TableHTTP) GetFreeTables(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "table.list_free")

	tables, err := h.Svc.GetFreeTables(ctx)
	if err != nil {
		return fail(l, "list_free_tables_error", err, "cannot list free tables")
	}
	return c.JSON(http.StatusOK, tables)
}
