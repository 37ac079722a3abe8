package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twoknow/config"
	"twoknow/storage"
)

const maizeJSON = `{"keyword":"maize","live_trend_score":74,"overall_score":66,"market_sector":"Agriculture",
"relevant_markets":["Wakulima Market","Kongowea"],
"historical_trends":[{"date":"2024-01-15","value":55},{"date":"2024-02-15","value":61},{"date":"2024-03-15","value":72}],
"data_source":"Serper API + Google Trends"}`

func setup(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.DefaultClientConfig()
	cfg.APIURL = srv.URL
	cfg.Timeout = 2 * time.Second
	cfg.ExportDir = t.TempDir()
	rt = newRuntime(cfg, storage.NewMemory(), nil)
	t.Cleanup(func() {
		if rt != nil {
			_ = rt.Close()
			rt = nil
		}
	})
}

func testCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	return cmd, &buf
}

func trendServer(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/trends/maize":
		_, _ = w.Write([]byte(maizeJSON))
	case r.URL.Path == "/auth/login":
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","user":{"id":4,"email":"otieno@example.co.ke","username":"otieno","full_name":"Otieno"}}`))
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func TestSearchAndHistory(t *testing.T) {
	setup(t, trendServer)
	cmd, out := testCmd()

	require.NoError(t, runSearch(cmd, []string{"maize"}))
	assert.Contains(t, out.String(), "maize (All Kenya)")
	assert.Contains(t, out.String(), "Overall score:    66")
	assert.Contains(t, out.String(), "Rising")
	assert.NotContains(t, out.String(), "demo data")

	out.Reset()
	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, out.String(), "maize")
	assert.Contains(t, out.String(), "Agriculture")
}

func TestSearchFallsBackToDemoData(t *testing.T) {
	setup(t, trendServer)
	cmd, out := testCmd()

	require.NoError(t, runSearch(cmd, []string{"mobile", "phones"}))
	assert.Contains(t, out.String(), "mobile phones")
	assert.Contains(t, out.String(), "demo data")
	assert.Contains(t, out.String(), "Electronics")
}

func TestLoginStoresSession(t *testing.T) {
	setup(t, trendServer)
	cmd, out := testCmd()

	authEmail, authPassword = "otieno@example.co.ke", "sokoni123"
	t.Cleanup(func() { authEmail, authPassword = "", "" })

	require.NoError(t, runLogin(cmd, nil))
	assert.Contains(t, out.String(), "Signed in as Otieno")
	assert.Equal(t, "tok", rt.app.Session.Token())
	assert.NoError(t, requireLogin())
}

func TestInsightRequiresLogin(t *testing.T) {
	setup(t, trendServer)
	cmd, _ := testCmd()
	assert.Error(t, runInsight(cmd, []string{"maize"}))
}

func TestMarketsFilter(t *testing.T) {
	setup(t, trendServer)
	cmd, out := testCmd()

	marketRegion = "Mombasa"
	t.Cleanup(func() { marketRegion = "" })

	require.NoError(t, runMarkets(cmd, nil))
	assert.Contains(t, out.String(), "Kongowea")
	assert.NotContains(t, out.String(), "Gikomba")
}

func TestExportMarkets(t *testing.T) {
	setup(t, trendServer)
	cmd, out := testCmd()

	require.NoError(t, exportMarketsCmd.RunE(cmd, nil))
	path := strings.TrimSpace(strings.TrimPrefix(out.String(), "Saved "))
	assert.Equal(t, rt.cfg.ExportDir, filepath.Dir(path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSettings(t *testing.T) {
	setup(t, trendServer)
	cmd, out := testCmd()

	settingsTheme, settingsRegion = "ocean", "Kisumu"
	t.Cleanup(func() { settingsTheme, settingsRegion = "", "" })

	require.NoError(t, runSettings(cmd, nil))
	assert.Contains(t, out.String(), "ocean")
	assert.Contains(t, out.String(), "Region: Kisumu")
	assert.Equal(t, "ocean", rt.app.Session.Theme())
}

func TestAnalyze(t *testing.T) {
	setup(t, trendServer)
	cmd, out := testCmd()

	searchRegion = "Nairobi"
	t.Cleanup(func() { searchRegion = "" })

	require.NoError(t, runAnalyze(cmd, []string{"tomatoes"}))
	assert.Contains(t, out.String(), "tomatoes in Nairobi")
	assert.Contains(t, out.String(), "Focus on urban markets and digital marketing")
}

func TestFinishAfterFailedCommand(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	cmd, _ := testCmd()

	authEmail, authPassword = "otieno@example.co.ke", "wrong"
	t.Cleanup(func() { authEmail, authPassword = "", "" })

	require.Error(t, runLogin(cmd, nil))

	var stderr bytes.Buffer
	finish(&stderr)
	assert.Contains(t, stderr.String(), "Invalid email or password")
	assert.Nil(t, rt)

	finish(&stderr)
}
