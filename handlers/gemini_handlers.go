package handlers

import (
	"fmt"
	"strings"

	"twoknow/config"
	"twoknow/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// HandleGenerateInsight asks Gemini for a short market narrative built on
// the trend analysis of a keyword.
// POST /api/insights
func HandleGenerateInsight(c *fiber.Ctx) error {
	var req models.InsightRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Keyword = strings.TrimSpace(req.Keyword)
	if req.Keyword == "" {
		return detail(c, fiber.StatusBadRequest, "Keyword is required")
	}
	if req.Region == "" {
		req.Region = "KE"
	}
	if config.AppConfig.GeminiAPIKey == "" {
		return detail(c, fiber.StatusServiceUnavailable, "AI insights are not configured")
	}

	ctx := c.UserContext()
	result, err := TrendService.Analyze(ctx, req.Keyword, req.Region)
	if err != nil {
		return internal(c, "trend analysis failed", err, "Error analyzing trends")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return internal(c, "creating Gemini client failed", err, "Failed to initialize Gemini client")
	}
	defer client.Close()

	model := client.GenerativeModel(config.AppConfig.GeminiModel)
	resp, err := model.GenerateContent(ctx, genai.Text(insightPrompt(result)))
	if err != nil {
		return internal(c, "generating insight failed", err, "Failed to generate insight")
	}

	summary := responseText(resp)
	zap.L().Info("insight generated", zap.String("keyword", req.Keyword), zap.Int("chars", len(summary)))
	return c.JSON(models.InsightResponse{
		Keyword: req.Keyword,
		Region:  req.Region,
		Summary: summary,
		Model:   config.AppConfig.GeminiModel,
	})
}

func insightPrompt(r *models.TrendResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a market analyst for small traders in Kenya.\n")
	fmt.Fprintf(&b, "Product: %s\nRegion: %s\nSector: %s\n", r.Keyword, r.Region, r.MarketSector)
	fmt.Fprintf(&b, "Overall market score (0-100): %.0f\n", r.OverallScore)
	fmt.Fprintf(&b, "Relevant markets: %s\n", strings.Join(r.RelevantMarkets, ", "))
	b.WriteString("Monthly search interest:")
	for _, p := range r.HistoricalTrends {
		fmt.Fprintf(&b, " %s=%d", p.Date, p.Value)
	}
	b.WriteString("\nIn at most four sentences, describe demand, the best markets to sell in and one risk.")
	return b.String()
}

func responseText(resp *genai.GenerateContentResponse) string {
	var parts []string
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
