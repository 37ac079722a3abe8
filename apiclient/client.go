// Package apiclient talks to the 2KNOW backend over HTTP.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"twoknow/models"

	"go.uber.org/zap"
)

// Client issues one HTTP request per operation. When TokenSource returns a
// non-empty token it is sent as a bearer token on trend lookups.
type Client struct {
	BaseURL     string
	HTTP        *http.Client
	TokenSource func() string
	Log         *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
		Log:     log,
	}
}

type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// call performs the request and decodes a 2xx body into out. A 401 maps to
// unauthorized; other failures map to *APIError or *NetworkError.
func (c *Client) call(ctx context.Context, op, method, path, token string, in, out interface{}, unauthorized error) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Warn("request failed", zap.String("op", op), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	c.Log.Debug("request", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.Duration("latency", time.Since(start)))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized && unauthorized != nil {
		return unauthorized
	}
	if resp.StatusCode/100 != 2 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		msg := eb.Detail
		if msg == "" {
			msg = eb.Message
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.Log.Warn("malformed response", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.Error(err))
		return &APIError{Status: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, username, password, fullName string) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.call(ctx, "register", http.MethodPost, "/auth/register", "", models.RegisterRequest{
		Email: email, Username: username, Password: password, FullName: fullName,
	}, &out, nil)
	return out, err
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	var out models.AuthResponse
	err := c.call(ctx, "login", http.MethodPost, "/auth/login", "", models.LoginRequest{
		Email: email, Password: password,
	}, &out, ErrInvalidCredentials)
	return out, err
}

// GetProfile fetches the profile of the token's owner.
func (c *Client) GetProfile(ctx context.Context, token string) (models.UserProfile, error) {
	var out models.UserProfile
	err := c.call(ctx, "get profile", http.MethodGet, "/auth/profile", token, nil, &out, ErrSessionExpired)
	return out, err
}

// UpdateProfile changes the server-side full name.
func (c *Client) UpdateProfile(ctx context.Context, token, fullName string) (models.UserProfile, error) {
	var out struct {
		User models.UserProfile `json:"user"`
	}
	err := c.call(ctx, "update profile", http.MethodPut, "/auth/profile", token,
		models.UpdateProfileRequest{FullName: &fullName}, &out, ErrSessionExpired)
	return out.User, err
}

func (c *Client) ChangePassword(ctx context.Context, token, current, next string) error {
	return c.call(ctx, "change password", http.MethodPost, "/auth/change-password", token,
		models.ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil, ErrSessionExpired)
}

func (c *Client) Stats(ctx context.Context, token string) (models.UserStats, error) {
	var out models.UserStats
	err := c.call(ctx, "stats", http.MethodGet, "/auth/stats", token, nil, &out, ErrSessionExpired)
	return out, err
}

// Logout notifies the server. Tokens are stateless so this is advisory.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.call(ctx, "logout", http.MethodPost, "/auth/logout", token, nil, nil, nil)
}

// GetTrend fetches the trend analysis for keyword in region.
func (c *Client) GetTrend(ctx context.Context, keyword, region string) (models.TrendResult, error) {
	path := "/trends/" + url.PathEscape(keyword)
	if region != "" {
		path += "?region=" + url.QueryEscape(region)
	}
	token := ""
	if c.TokenSource != nil {
		token = c.TokenSource()
	}
	var out models.TrendResult
	err := c.call(ctx, "get trend", http.MethodGet, path, token, nil, &out, ErrSessionExpired)
	return out, err
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database,omitempty"`
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.call(ctx, "health", http.MethodGet, "/health", "", nil, &out, nil)
	return out, err
}

// Insight asks the server's AI assistant for a short narrative about
// keyword. It needs a signed-in token.
func (c *Client) Insight(ctx context.Context, token, keyword, region string) (models.InsightResponse, error) {
	var out models.InsightResponse
	err := c.call(ctx, "insight", http.MethodPost, "/api/insights", token,
		models.InsightRequest{Keyword: keyword, Region: region}, &out, ErrSessionExpired)
	return out, err
}
