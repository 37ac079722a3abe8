package handlers

import (
	"strings"

	"twoknow/middleware"
	"twoknow/services/trends"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"
)

// TrendService answers the trends endpoints. It is set at startup.
var TrendService *trends.Service

// HandlePublicTrends analyzes a keyword without authentication. Analysis
// failures are answered with demo data.
// GET /trends/:keyword?region=
func HandlePublicTrends(c *fiber.Ctx) error {
	keyword := strings.TrimSpace(c.Params("keyword"))
	if keyword == "" {
		return detail(c, fiber.StatusBadRequest, "Keyword is required")
	}

	result, err := TrendService.Analyze(c.UserContext(), keyword, c.Query("region", "KE"))
	if err != nil {
		zap.L().Warn("trend analysis failed, serving demo data", zap.String("keyword", keyword), zap.Error(err))
		return c.JSON(trends.DemoResult(keyword))
	}
	return c.JSON(result)
}

// HandleProtectedTrends analyzes a keyword for the authenticated user.
// GET /api/trends/:keyword?region=
func HandleProtectedTrends(c *fiber.Ctx) error {
	keyword := strings.TrimSpace(c.Params("keyword"))
	if keyword == "" {
		return detail(c, fiber.StatusBadRequest, "Keyword is required")
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		return detail(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	result, err := TrendService.Analyze(c.UserContext(), keyword, c.Query("region", "KE"))
	if err != nil {
		return internal(c, "trend analysis failed", err, "Error analyzing trends: "+err.Error())
	}
	email, _ := c.Locals(middleware.LocalEmail).(string)
	result.User = email
	result.UserID = userID
	return c.JSON(result)
}

// HandleTrendsMetrics reports cache and retry counters.
// GET /trends/metrics
func HandleTrendsMetrics(c *fiber.Ctx) error {
	return c.JSON(TrendService.Metrics.Snapshot())
}

// HandlePrometheusMetrics exposes the same counters for Prometheus scraping.
// GET /metrics
func HandlePrometheusMetrics(c *fiber.Ctx) error {
	return adaptor.HTTPHandler(TrendService.Metrics.Handler())(c)
}
