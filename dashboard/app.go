// Package dashboard is the client's single UI store. App owns the session,
// the current result, the charts, the theme and the active view, and is
// shared by the CLI and the terminal dashboard.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"twoknow/apiclient"
	"twoknow/charts"
	"twoknow/markets"
	"twoknow/models"
	"twoknow/search"
	"twoknow/session"
	"twoknow/theme"
	"twoknow/view"
)

var (
	ErrMissingCredentials = errors.New("please enter email and password")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrUnknownMarket      = errors.New("unknown market")
)

// Backend is the subset of the API the dashboard uses.
type Backend interface {
	Register(ctx context.Context, email, username, password, fullName string) (models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (models.AuthResponse, error)
	GetProfile(ctx context.Context, token string) (models.UserProfile, error)
	UpdateProfile(ctx context.Context, token, fullName string) (models.UserProfile, error)
	ChangePassword(ctx context.Context, token, current, next string) error
	Logout(ctx context.Context, token string) error
	GetTrend(ctx context.Context, keyword, region string) (models.TrendResult, error)
}

// App is the dashboard state shared by every front-end.
type App struct {
	API      Backend
	Session  *session.Store
	Flow     *search.Flow
	Charts   *charts.Renderer
	Theme    *theme.Engine
	Views    *view.Controller
	Notifier *view.Notifier
	Log      *zap.Logger
	Now      func() time.Time

	mu         sync.Mutex
	current    *models.TrendResult
	demo       bool
	comparison *models.Comparison
	marketList []models.MarketDirectoryEntry
}

// New wires an App around a backend and a session store.
func New(api Backend, store *session.Store, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		API:        api,
		Session:    store,
		Flow:       search.NewFlow(api, store, log.Named("search")),
		Charts:     charts.NewRenderer(log.Named("charts")),
		Theme:      theme.NewEngine(store, log.Named("theme")),
		Views:      view.NewController(log.Named("view")),
		Notifier:   view.NewNotifier(20, log),
		Log:        log,
		Now:        time.Now,
		marketList: markets.All(),
	}
	a.Views.OnShow(view.SectionTrends, a.loadTrendComparisons)
	a.Views.OnShow(view.SectionMarkets, func() { a.FilterMarkets("", "", "") })
	return a
}

// Start applies the stored theme and opens the dashboard when a session
// exists, or the login view otherwise.
func (a *App) Start(systemDark bool) {
	a.Theme.Init(systemDark)
	if a.Session.IsAuthenticated() {
		if cmp, ok := a.Session.LastComparison(); ok {
			a.mu.Lock()
			a.comparison = &cmp
			a.mu.Unlock()
		}
		_ = a.Views.Show(view.SectionDashboard)
		return
	}
	_ = a.Views.Show(view.SectionLogin)
}

// Login signs in and stores the session.
func (a *App) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		a.Notifier.Error(ErrMissingCredentials.Error())
		return models.Session{}, ErrMissingCredentials
	}
	resp, err := a.API.Login(ctx, email, password)
	if err != nil {
		a.Notifier.Error(authMessage(err, "Login failed. Please try again."))
		return models.Session{}, err
	}
	return a.signedIn(resp, "Welcome back")
}

// Register creates an account and signs in with it.
func (a *App) Register(ctx context.Context, email, username, password, fullName string) (models.Session, error) {
	email, username = strings.TrimSpace(email), strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		a.Notifier.Error("Please fill in all required fields")
		return models.Session{}, ErrMissingCredentials
	}
	if len(password) < 6 {
		a.Notifier.Error(ErrPasswordTooShort.Error())
		return models.Session{}, ErrPasswordTooShort
	}
	resp, err := a.API.Register(ctx, email, username, password, strings.TrimSpace(fullName))
	if err != nil {
		a.Notifier.Error(authMessage(err, "Registration failed"))
		return models.Session{}, err
	}
	return a.signedIn(resp, "Account created")
}

func (a *App) signedIn(resp models.AuthResponse, greeting string) (models.Session, error) {
	sess, err := a.Session.SaveAuth(resp)
	if err != nil {
		a.Notifier.Error("Could not save your session")
		return models.Session{}, fmt.Errorf("saving session: %w", err)
	}
	a.Log.Info("signed in", zap.String("email", sess.Email))
	a.Notifier.Success(fmt.Sprintf("%s, %s!", greeting, sess.DisplayName))
	_ = a.Views.Show(view.SectionDashboard)
	return sess, nil
}

func authMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrInvalidCredentials):
		return "Invalid email or password"
	case apiclient.IsNetworkError(err):
		return "Cannot reach the 2KNOW server. Check your connection."
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	}
	return fallback
}

// Logout clears the session and returns to the login view. The server
// call is advisory and its failure is only logged.
func (a *App) Logout(ctx context.Context) error {
	if token := a.Session.Token(); token != "" {
		if err := a.API.Logout(ctx, token); err != nil {
			a.Log.Warn("server logout failed", zap.Error(err))
		}
	}
	if err := a.Session.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	a.mu.Lock()
	a.current = nil
	a.demo = false
	a.comparison = nil
	a.mu.Unlock()

	_ = a.Views.Show(view.SectionLogin)
	a.Notifier.Info("You have been logged out")
	return nil
}

// RefreshProfile reloads the profile from the server. An expired session
// is cleared and the login view shown. Network failures keep the cached
// profile.
func (a *App) RefreshProfile(ctx context.Context) (view.ProfileView, error) {
	token := a.Session.Token()
	if token == "" {
		_ = a.Views.Show(view.SectionLogin)
		return view.ProfileView{}, ErrNotLoggedIn
	}
	p, err := a.API.GetProfile(ctx, token)
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		if cerr := a.Session.Clear(); cerr != nil {
			a.Log.Warn("clearing expired session failed", zap.Error(cerr))
		}
		_ = a.Views.Show(view.SectionLogin)
		a.Notifier.Warning("Session expired. Please log in again.")
		return view.ProfileView{}, err
	case err != nil:
		a.Log.Warn("profile refresh failed, using cached profile", zap.Error(err))
		a.Notifier.Warning("Could not refresh your profile")
	default:
		sess := a.Session.Load()
		sess.Email = p.Email
		sess.Username = p.Username
		if p.FullName != "" {
			sess.DisplayName = p.FullName
		}
		if p.CreatedAt != nil {
			sess.MemberSince = p.CreatedAt.UTC().Format(time.RFC3339)
		}
		if p.LastLogin != nil {
			sess.LastLogin = p.LastLogin.UTC().Format(time.RFC3339)
		}
		if serr := a.Session.Save(sess); serr != nil {
			a.Log.Warn("saving refreshed profile failed", zap.Error(serr))
		}
	}
	_ = a.Views.Show(view.SectionProfile)
	return a.ProfileView(), nil
}

// ProfileView renders the cached profile.
func (a *App) ProfileView() view.ProfileView {
	return view.NewProfileView(a.Session.Load(), a.Session.History(), a.Now())
}

// SaveProfile stores the edited profile locally and pushes the name to
// the server when signed in.
func (a *App) SaveProfile(ctx context.Context, name, email, bio string) error {
	if err := a.Session.SaveProfile(name, email, bio); err != nil {
		a.Notifier.Error(err.Error())
		return err
	}
	if token := a.Session.Token(); token != "" {
		if _, err := a.API.UpdateProfile(ctx, token, strings.TrimSpace(name)); err != nil {
			a.Log.Warn("server profile update failed", zap.Error(err))
		}
	}
	a.Notifier.Success("Profile updated successfully")
	return nil
}

// ChangePassword validates the new password locally, then asks the server.
func (a *App) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if err := session.ValidateNewPassword(next, confirm); err != nil {
		a.Notifier.Error(err.Error())
		return err
	}
	token := a.Session.Token()
	if token == "" {
		return ErrNotLoggedIn
	}
	if err := a.API.ChangePassword(ctx, token, current, next); err != nil {
		a.Notifier.Error(authMessage(err, "Password change failed"))
		return err
	}
	a.Notifier.Success("Password changed successfully")
	return nil
}

// DeleteAccountData removes local history, avatar and bio.
func (a *App) DeleteAccountData() error {
	if err := a.Session.DeleteAccountData(); err != nil {
		return err
	}
	a.Notifier.Success("Account data deleted")
	return nil
}

// SaveSettings applies and stores the theme and default region.
func (a *App) SaveSettings(themeName, region string) error {
	if err := a.Theme.Apply(themeName); err != nil {
		a.Notifier.Error(fmt.Sprintf("Unknown theme %q", themeName))
		return err
	}
	if region == "" {
		region = search.DefaultRegion
	}
	if err := a.Session.SetRegion(region); err != nil {
		return fmt.Errorf("saving region: %w", err)
	}
	a.Notifier.Success("Settings saved successfully")
	return nil
}
