package routes

import (
	"strings"

	"twoknow/config"
	"twoknow/handlers"
	"twoknow/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// NewApp builds the fiber application with middleware and routes.
func NewApp(log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "2KNOW API",
		ErrorHandler: middleware.ErrorHandler,
		UnescapePath: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(config.AppConfig.AllowedOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: len(config.AppConfig.AllowedOrigins) > 0 && !contains(config.AppConfig.AllowedOrigins, "*"),
	}))

	SetupRoutes(app)
	return app
}

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	app.Get("/health", handlers.HandleHealth)
	app.Get("/metrics", handlers.HandlePrometheusMetrics)

	// --- Authentication Routes ---
	auth := app.Group("/auth")
	auth.Post("/register", handlers.HandleRegister)
	auth.Post("/login", handlers.HandleLogin)
	auth.Post("/logout", handlers.HandleLogout)
	auth.Get("/profile", middleware.JWTMiddleware, handlers.HandleGetProfile)
	auth.Put("/profile", middleware.JWTMiddleware, handlers.HandleUpdateProfile)
	auth.Post("/change-password", middleware.JWTMiddleware, handlers.HandleChangePassword)
	auth.Get("/stats", middleware.JWTMiddleware, handlers.HandleGetStats)

	// --- Public Trend Routes ---
	app.Get("/trends/metrics", handlers.HandleTrendsMetrics) // Must be before /trends/:keyword
	app.Get("/trends/:keyword", handlers.HandlePublicTrends)

	// --- Protected API Routes ---
	api := app.Group("/api", middleware.JWTMiddleware)
	api.Get("/trends/:keyword", handlers.HandleProtectedTrends)
	api.Post("/insights", handlers.HandleGenerateInsight)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
