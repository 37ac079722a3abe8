package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"twoknow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second, nil)
}

func TestLogin(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "sokoni123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","user":{"id":3,"email":"a@b.co","username":"a"}}`))
	})

	resp, err := c.Login(context.Background(), "a@b.co", "sokoni123")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.AccessToken)
	assert.Equal(t, int64(3), resp.User.ID)

	_, err = c.Login(context.Background(), "a@b.co", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterCarriesServerMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Email already registered"}`))
	})

	_, err := c.Register(context.Background(), "a@b.co", "a", "secret1", "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Email already registered", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestGetProfileSessionExpired(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"email":"a@b.co","username":"a","full_name":"Akinyi"}`))
	})

	p, err := c.GetProfile(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "Akinyi", p.FullName)

	_, err = c.GetProfile(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGetTrend(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trends/maize flour", r.URL.Path)
		assert.Equal(t, "Nakuru", r.URL.Query().Get("region"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"keyword":"maize flour","overall_score":71.5,"market_sector":"Agriculture","historical_trends":[{"date":"2025-01-01","value":60}]}`))
	})
	c.TokenSource = func() string { return "tok" }

	res, err := c.GetTrend(context.Background(), "maize flour", "Nakuru")
	require.NoError(t, err)
	assert.Equal(t, 71.5, res.OverallScore)
	assert.Len(t, res.HistoricalTrends, 1)
}

func TestServerErrorWithoutBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.GetTrend(context.Background(), "x", "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "api error: status 502", apiErr.Error())
	assert.False(t, IsNetworkError(err))
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, nil)
	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestMalformedBodyIsAPIError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})
	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.False(t, IsNetworkError(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Contains(t, apiErr.Message, "malformed response")
	assert.Equal(t, http.StatusOK, StatusCode(err))
}

func TestInsight(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/insights", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var req models.InsightRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, _ = w.Write([]byte(`{"keyword":"` + req.Keyword + `","region":"KE","summary":"Demand is rising.","model":"gemini"}`))
	})

	out, err := c.Insight(context.Background(), "tok", "maize", "KE")
	require.NoError(t, err)
	assert.Equal(t, "maize", out.Keyword)
	assert.Equal(t, "Demand is rising.", out.Summary)
}
