package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/restaurant/pkg/metrics"
	middleware "github.com/Skotchmaster/restaurant/pkg/middleware/auth"
)

type Deps struct {
	Users    *UserHTTP
	Bookings *BookingHTTP
	Tables   *TableHTTP
	Menu     *MenuHTTP
	Orders   *OrderHTTP

	JWTSecret []byte
	Refresher middleware.Refresher

	// Ready backs /health/ready; nil means always ready.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = Validator{}

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	authMW := middleware.NewAutoRefreshMiddleware(d.JWTSecret, d.Refresher)

	users := e.Group("/users")
	users.POST("", d.Users.Register)
	users.POST("/login", d.Users.Login)
	users.POST("/refresh", d.Users.Refresh)
	users.POST("/logout", d.Users.Logout)
	users.GET("", d.Users.ListUsers, authMW.RequireAdmin)
	users.GET("/:id", d.Users.GetUser, authMW.RequireAuth)

	bookings := e.Group("/bookings", authMW.RequireAuth)
	bookings.POST("", d.Bookings.CreateBooking)
	bookings.GET("", d.Bookings.ListBookings)
	bookings.GET("/user/:user_id", d.Bookings.ListUserBookings)
	bookings.GET("/:id", d.Bookings.GetBooking)
	bookings.PUT("/:id", d.Bookings.UpdateBookingStatus)
	bookings.DELETE("/:id", d.Bookings.DeleteBooking)
	bookings.POST("/:id/assign-table", d.Bookings.AssignTable, authMW.RequireAdmin)

	tables := e.Group("/tables")
	tables.GET("", d.Tables.ListTables)
	tables.GET("/free", d.Tables.GetFreeTables)
	tables.GET("/:id", d.Tables.GetTable)
	tables.POST("/create", d.Tables.CreateTable, authMW.RequireAdmin)
	tables.PUT("/free/:id", d.Tables.FreeTable, authMW.RequireAdmin)

	menu := e.Group("/menu")
	menu.GET("", d.Menu.ListFoodItems)
	menu.GET("/categories", d.Menu.ListCategories)
	menu.GET("/search", d.Menu.SearchFoodItems)
	menu.POST("", d.Menu.AddFoodItem, authMW.RequireAdmin)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.Orders.PlaceOrder)
	orders.GET("", d.Orders.ListOrders)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.GET("/:id/receipt", d.Orders.DownloadReceipt)

	admin := orders.Group("", authMW.RequireAdmin)
	admin.PUT("/:id", d.Orders.UpdateOrderStatus)
	admin.DELETE("/:id", d.Orders.DeleteOrder)
	admin.POST("/:id/send", d.Orders.SendOrder)
}
