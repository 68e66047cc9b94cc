package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shutterdesk/shutterdesk-api/internal/config"
	"github.com/shutterdesk/shutterdesk-api/internal/handler"
	"github.com/shutterdesk/shutterdesk-api/internal/middleware"
	"github.com/shutterdesk/shutterdesk-api/internal/models"
	"github.com/shutterdesk/shutterdesk-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler                *handler.AuthHandler
	PublicHandler              *handler.PublicHandler
	ProfileHandler             *handler.ProfileHandler
	BookingHandler             *handler.BookingHandler
	PhotographerBookingHandler *handler.PhotographerBookingHandler
	AdminBookingHandler        *handler.AdminBookingHandler
	AlbumHandler               *handler.AlbumHandler
	PhotoHandler               *handler.PhotoHandler
	AdminUserHandler           *handler.AdminUserHandler
	ActivityLogHandler         *handler.ActivityLogHandler
	DashboardHandler           *handler.DashboardHandler
	JWTMiddleware              fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	admin := string(models.RoleAdmin)
	photographer := string(models.RolePhotographer)
	client := string(models.RoleClient)

	// Public surface: feed, directory, public albums.
	if deps.PublicHandler != nil {
		deps.PublicHandler.Register(api)
	}

	// Authentication.
	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use("/login", middleware.RateLimit("login", 10, time.Minute))
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	// Self-service profile.
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.Register(api.Group("/profile", jwtMiddleware))
	}

	// Client bookings.
	if deps.BookingHandler != nil {
		request := api.Group("", jwtMiddleware, middleware.RequireRole(client))
		request.Use("/photographers/:id/book", middleware.RateLimit("booking", 10, time.Minute))
		deps.BookingHandler.RegisterRequest(request)

		deps.BookingHandler.Register(api.Group("/bookings", jwtMiddleware))
	}

	// Dashboard.
	dashboard := api.Group("/dashboard", jwtMiddleware)
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(dashboard.Group("", middleware.RequireRole(admin, photographer)))
	}
	if deps.PhotographerBookingHandler != nil {
		deps.PhotographerBookingHandler.Register(
			dashboard.Group("/photographer/bookings", middleware.RequireRole(photographer)))
	}
	if deps.AdminBookingHandler != nil {
		deps.AdminBookingHandler.Register(
			dashboard.Group("/bookings", middleware.RequireRole(admin)))
	}
	if deps.AlbumHandler != nil {
		deps.AlbumHandler.Register(
			dashboard.Group("/albums", middleware.RequireRole(admin, photographer)))
	}
	if deps.PhotoHandler != nil {
		deps.PhotoHandler.Register(
			dashboard.Group("/photos", middleware.RequireRole(admin, photographer)))
	}
	if deps.AdminUserHandler != nil {
		deps.AdminUserHandler.Register(
			dashboard.Group("/users", middleware.RequireRole(admin)))
	}
	if deps.ActivityLogHandler != nil {
		deps.ActivityLogHandler.Register(
			dashboard.Group("/activity-logs", middleware.RequireRole(admin)))
	}
}
