// Package app wires configuration, storage, services and handlers into a Fiber application.
package app

import (
	"errors"
	"time"

	"erp/internal/config"
	"erp/internal/handlers"
	"erp/internal/middleware"
	"erp/internal/repositories"
	"erp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services bundles the services behind the HTTP API.
type Services struct {
	Repos      *repositories.Repositories
	Auth       *services.AuthService
	Products   *services.ProductService
	Categories *services.CategoryService
	Users      *services.UserService
	Addresses  *services.AddressService
	Orders     *services.OrderService
	Dashboard  *services.DashboardService

	eventsEnabled bool
}

// NewServices builds every service over db. publisher may be nil to run without events.
func NewServices(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher) *Services {
	repos := repositories.NewGORMRepositories(db)
	tx := repositories.NewGORMTransactor(db)

	return &Services{
		Repos:         repos,
		Auth:          services.NewAuthService(repos.Users, cfg.JWTSecret, cfg.TokenTTL),
		Products:      services.NewProductService(repos.Products, repos.Categories, cfg.LowStockThreshold),
		Categories:    services.NewCategoryService(repos.Categories),
		Users:         services.NewUserService(repos.Users),
		Addresses:     services.NewAddressService(repos, tx),
		Orders:        services.NewOrderService(repos, tx, services.NewOrderNumberGenerator(cfg.OrderNumberMaxAttempts), publisher),
		Dashboard:     services.NewDashboardService(repos, cfg.LowStockThreshold),
		eventsEnabled: publisher != nil,
	}
}

// New creates the Fiber app with middleware, the /api/v1 routes and /health.
func New(db *gorm.DB, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "erp",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.Logger}))

	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(svc.Auth))
	handlers.NewDashboardHandler(svc.Dashboard).RegisterRoutes(protected)
	handlers.NewCategoryHandler(svc.Categories).RegisterRoutes(protected)
	handlers.NewProductHandler(svc.Products).RegisterRoutes(protected)
	handlers.NewUserHandler(svc.Users, svc.Addresses).RegisterRoutes(protected)
	handlers.NewOrderHandler(svc.Orders).RegisterRoutes(protected)

	app.Get("/health", func(c *fiber.Ctx) error {
		code, status, database := fiber.StatusOK, "healthy", "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			code, status, database = fiber.StatusServiceUnavailable, "unhealthy", "down"
		}
		events := "disabled"
		if svc.eventsEnabled {
			events = "enabled"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"database": database,
			"events":   events,
			"time":     time.Now().Format(time.RFC3339),
		})
	})

	return app
}

// errorHandler answers errors that handlers return instead of writing themselves,
// such as unknown routes and recovered panics.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	status, message := handlers.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
