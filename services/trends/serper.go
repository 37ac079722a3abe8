package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const serperEndpoint = "https://google.serper.dev/search"

// SerperResult is the live search signal for a keyword.
type SerperResult struct {
	RelevanceScore float64  `json:"relevance_score"`
	MarketSector   string   `json:"market_sector"`
	Regions        []string `json:"regions"`
	Note           string   `json:"note,omitempty"`
	Demo           bool     `json:"-"`
}

// SerperClient queries the Serper search API for Kenyan results. Without an
// API key it answers with demo data.
type SerperClient struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
	Log        *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSerperClient(apiKey string, log *zap.Logger) *SerperClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &SerperClient{
		APIKey:     apiKey,
		Endpoint:   serperEndpoint,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Log:        log,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type serperRequest struct {
	Q  string `json:"q"`
	GL string `json:"gl"`
	HL string `json:"hl"`
}

type serperResponse struct {
	Organic []json.RawMessage `json:"organic"`
}

// Search returns the relevance signal for keyword. Upstream failures are
// logged and mapped to a neutral result rather than returned.
func (s *SerperClient) Search(ctx context.Context, keyword string) SerperResult {
	if s.APIKey == "" {
		s.Log.Warn("SERPER_API_KEY not set, using demo data", zap.String("keyword", keyword))
		return s.demo(keyword)
	}

	res, err := s.search(ctx, keyword)
	if err != nil {
		s.Log.Error("serper request failed", zap.String("keyword", keyword), zap.Error(err))
		return SerperResult{RelevanceScore: 50, MarketSector: "General", Regions: []string{"Nairobi"}}
	}
	return res
}

func (s *SerperClient) search(ctx context.Context, keyword string) (SerperResult, error) {
	body, err := json.Marshal(serperRequest{Q: keyword + " market Kenya", GL: "ke", HL: "en"})
	if err != nil {
		return SerperResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return SerperResult{}, err
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return SerperResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return SerperResult{}, fmt.Errorf("serper: unexpected status %d", resp.StatusCode)
	}

	var out serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SerperResult{}, fmt.Errorf("serper: decoding response: %w", err)
	}

	relevance := len(out.Organic) * 10
	if relevance > 100 {
		relevance = 100
	}
	return SerperResult{
		RelevanceScore: float64(relevance),
		MarketSector:   DetectSector(keyword),
		Regions:        []string{"Nairobi", "Mombasa", "Kisumu"},
	}, nil
}

func (s *SerperClient) demo(keyword string) SerperResult {
	lower := strings.ToLower(keyword)
	res := SerperResult{Note: "Demo data - set SERPER_API_KEY for real data", Demo: true}
	switch {
	case strings.Contains(lower, "maize"):
		res.RelevanceScore = 75
		res.MarketSector = "Agriculture"
		res.Regions = []string{"Nairobi", "Nakuru", "Kisumu"}
	case strings.Contains(lower, "phone"):
		res.RelevanceScore = 65
		res.MarketSector = "Electronics"
		res.Regions = []string{"Nairobi", "Mombasa", "Kisumu"}
	default:
		s.mu.Lock()
		res.RelevanceScore = float64(40 + s.rng.Intn(21))
		s.mu.Unlock()
		res.MarketSector = "General"
		res.Regions = []string{"Nairobi", "Mombasa", "Eldoret"}
	}
	return res
}
