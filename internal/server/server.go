package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"campus-preorder/internal/handler"
	"campus-preorder/internal/middleware"
	"campus-preorder/internal/model"
	"campus-preorder/internal/service"
)

type Services struct {
	Catalog  service.CatalogService
	Cart     service.CartService
	Checkout service.CheckoutService
	Order    service.OrderService
	Vendor   service.VendorService
	Admin    service.AdminService
	User     service.UserService
}

type Server struct {
	echo           *echo.Echo
	auth           echo.MiddlewareFunc
	catalogHandler *handler.CatalogHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	vendorHandler  *handler.VendorHandler
	adminHandler   *handler.AdminHandler
	userHandler    *handler.UserHandler
}

func NewServer(services Services, authCfg middleware.AuthConfig, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(log)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("action", "http"),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("user_id", middleware.UserID(c)),
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:           e,
		auth:           middleware.AuthMiddleware(authCfg, services.User, log),
		catalogHandler: handler.NewCatalogHandler(services.Catalog),
		cartHandler:    handler.NewCartHandler(services.Cart),
		orderHandler:   handler.NewOrderHandler(services.Checkout, services.Order),
		vendorHandler:  handler.NewVendorHandler(services.Vendor),
		adminHandler:   handler.NewAdminHandler(services.Admin),
		userHandler:    handler.NewUserHandler(services.User),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- reference data & catalog --------
	api.GET("/locations", s.catalogHandler.ListLocations)
	api.GET("/time-slots", s.catalogHandler.ListTimeSlots)
	api.GET("/vendors", s.catalogHandler.ListVendors)
	api.GET("/vendors/:id/menu", s.catalogHandler.VendorMenu)

	signedIn := api.Group("", s.auth)
	signedIn.GET("/me", s.userHandler.Me)
	signedIn.PUT("/me", s.userHandler.UpdateMe)

	// -------- student --------
	cart := signedIn.Group("/cart")
	cart.GET("", s.cartHandler.Get)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PATCH("/items/:menuItemID", s.cartHandler.SetQuantity)
	cart.DELETE("/items/:menuItemID", s.cartHandler.RemoveItem)
	cart.DELETE("", s.cartHandler.Clear)

	signedIn.GET("/checkout/slots", s.orderHandler.AvailableSlots)
	signedIn.GET("/checkout/quote", s.orderHandler.Quote)

	orders := signedIn.Group("/orders")
	orders.POST("", s.orderHandler.PlaceOrder)
	orders.GET("", s.orderHandler.ListMine)
	orders.GET("/:id", s.orderHandler.GetMine)
	orders.POST("/:id/cancel", s.orderHandler.Cancel)

	// -------- vendor --------
	signedIn.POST("/vendor/apply", s.vendorHandler.Apply)
	vendor := signedIn.Group("/vendor", middleware.RequireRole(model.RoleVendor, model.RoleAdmin))
	vendor.GET("", s.vendorHandler.Mine)
	vendor.POST("/menu", s.vendorHandler.AddMenuItem)
	vendor.PATCH("/menu/:id", s.vendorHandler.SetMenuItemAvailability)
	vendor.GET("/orders", s.vendorHandler.ListOrders)
	vendor.PATCH("/orders/:id/status", s.vendorHandler.UpdateOrderStatus)

	// -------- admin --------
	admin := signedIn.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/vendors", s.adminHandler.ListVendors)
	admin.POST("/vendors/:id/moderate", s.adminHandler.ModerateVendor)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
