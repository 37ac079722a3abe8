package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"full_name,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserProfile `json:"user"`
}

// UserStats backs GET /auth/stats.
type UserStats struct {
	UserID         int64      `json:"user_id"`
	Email          string     `json:"email"`
	AccountCreated *time.Time `json:"account_created"`
	LastLogin      *time.Time `json:"last_login"`
	MemberForDays  int        `json:"member_for_days"`
	IsActive       bool       `json:"is_active"`
}

// --- Trends ---

// HistoricalPoint is one sample of a keyword's search interest.
type HistoricalPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// TrendResult describes a keyword's market score, sector and historical
// series. Results from the backend and locally generated fallback results
// share this shape.
type TrendResult struct {
	Keyword          string            `json:"keyword"`
	Region           string            `json:"region,omitempty"`
	LiveTrendScore   float64           `json:"live_trend_score"`
	OverallScore     float64           `json:"overall_score"`
	MarketSector     string            `json:"market_sector"`
	RelevantMarkets  []string          `json:"relevant_markets"`
	HistoricalTrends []HistoricalPoint `json:"historical_trends"`
	DataSource       string            `json:"data_source,omitempty"`
	Country          string            `json:"country,omitempty"`
	TimeRange        int               `json:"time_range,omitempty"`
	User             string            `json:"user,omitempty"`
	UserID           int64             `json:"user_id,omitempty"`
}

// SearchHistoryEntry is one persisted search.
type SearchHistoryEntry struct {
	Keyword   string  `json:"keyword"`
	Region    string  `json:"region"`
	Timestamp string  `json:"timestamp"`
	Score     float64 `json:"score"`
	Sector    string  `json:"sector"`
}

// Comparison holds the two sides of a side-by-side trend comparison.
type Comparison struct {
	Product1 TrendResult `json:"product1"`
	Product2 TrendResult `json:"product2"`
}

// --- Client session ---

// Session is the locally cached identity of the signed-in user.
type Session struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	MemberSince string `json:"member_since,omitempty"`
	LastLogin   string `json:"last_login,omitempty"`
}

// --- Market directory ---

type MarketDirectoryEntry struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Region      string   `json:"region"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Products    []string `json:"products"`
	Location    string   `json:"location"`
	Established string   `json:"established"`
	Size        string   `json:"size"`
	Activity    string   `json:"activity"`
	BestFor     []string `json:"bestFor"`
	Hours       string   `json:"hours"`
	Popularity  int      `json:"popularity"`
}
