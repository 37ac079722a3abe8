package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twoknow/apiclient"
	"twoknow/dashboard"
	"twoknow/models"
	"twoknow/session"
	"twoknow/storage"
	"twoknow/theme"
	"twoknow/view"
)

type offlineBackend struct{}

func (offlineBackend) Register(context.Context, string, string, string, string) (models.AuthResponse, error) {
	return models.AuthResponse{}, errOffline
}
func (offlineBackend) Login(context.Context, string, string) (models.AuthResponse, error) {
	return models.AuthResponse{}, errOffline
}
func (offlineBackend) GetProfile(context.Context, string) (models.UserProfile, error) {
	return models.UserProfile{}, errOffline
}
func (offlineBackend) UpdateProfile(context.Context, string, string) (models.UserProfile, error) {
	return models.UserProfile{}, errOffline
}
func (offlineBackend) ChangePassword(context.Context, string, string, string) error { return errOffline }
func (offlineBackend) Logout(context.Context, string) error                         { return nil }
func (offlineBackend) GetTrend(context.Context, string, string) (models.TrendResult, error) {
	return models.TrendResult{}, errOffline
}

var errOffline = &apiclient.NetworkError{Op: "dial", Err: errors.New("offline")}

func newModel(t *testing.T) Model {
	t.Helper()
	app := dashboard.New(offlineBackend{}, session.New(storage.NewMemory(), nil), nil)
	app.Start(false)
	return New(context.Background(), app, t.TempDir())
}

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func TestNewOpensDashboard(t *testing.T) {
	m := newModel(t)
	assert.Equal(t, view.SectionDashboard, m.app.Views.Active())
	assert.Contains(t, m.View(), "Search for a product")
}

func TestTabNavigationWraps(t *testing.T) {
	m := newModel(t)
	next, _ := m.Update(key(tea.KeyTab))
	m = next.(Model)
	assert.Equal(t, view.SectionSearch, m.app.Views.Active())

	next, _ = m.Update(key(tea.KeyShiftTab))
	m = next.(Model)
	next, _ = m.Update(key(tea.KeyShiftTab))
	m = next.(Model)
	assert.Equal(t, view.SectionSettings, m.app.Views.Active())
	assert.Contains(t, m.View(), "Theme")
}

func TestSearchRunsAsCommand(t *testing.T) {
	m := newModel(t)
	m.input.SetValue("maize")

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	msg := cmd()
	done, ok := msg.(searchDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	next, _ = m.Update(msg)
	m = next.(Model)
	assert.False(t, m.loading)
	require.NotNil(t, m.dash)
	assert.True(t, m.dash.Demo)
	assert.Equal(t, "Agriculture", m.dash.Sector)
	assert.NotEmpty(t, m.toasts)
	assert.Contains(t, m.View(), "maize")
}

func TestCompareNeedsTwoProducts(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.app.Views.Show(view.SectionTrends))
	m.input.SetValue("maize")

	next, cmd := m.Update(key(tea.KeyEnter))
	m = next.(Model)
	assert.Nil(t, cmd)
	require.NotEmpty(t, m.toasts)
	assert.Equal(t, view.LevelWarning, m.toasts[len(m.toasts)-1].Level)
}

func TestSplitComparison(t *testing.T) {
	a, b, ok := splitComparison("maize vs beans")
	assert.True(t, ok)
	assert.Equal(t, "maize", a)
	assert.Equal(t, "beans", b)

	a, b, ok = splitComparison("phones, laptops")
	assert.True(t, ok)
	assert.Equal(t, []string{"phones", "laptops"}, []string{a, b})

	_, _, ok = splitComparison("maize vs ")
	assert.False(t, ok)
	_, _, ok = splitComparison("maize")
	assert.False(t, ok)
}

func TestThemeCycle(t *testing.T) {
	m := newModel(t)
	next, _ := m.Update(key(tea.KeyCtrlT))
	m = next.(Model)
	assert.Equal(t, theme.Dark, m.app.Theme.Active())
	assert.True(t, m.app.Theme.Palette().IsDark)

	next, _ = m.Update(key(tea.KeyCtrlT))
	m = next.(Model)
	assert.Equal(t, theme.Auto, m.app.Theme.Active())
	assert.Equal(t, "auto", m.app.Session.Theme())
	assert.False(t, m.app.Theme.Palette().IsDark)
}
