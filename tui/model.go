// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"twoknow/dashboard"
	"twoknow/models"
	"twoknow/search"
	"twoknow/theme"
	"twoknow/view"
)

// ThemePollInterval is how often the system color scheme is re-read.
const ThemePollInterval = 30 * time.Second

type searchDoneMsg struct {
	view view.DashboardView
	err  error
}

type compareDoneMsg struct {
	summary search.ComparisonSummary
	err     error
}

type exportDoneMsg struct {
	path string
	err  error
}

// Model is the bubbletea model around a dashboard.App.
type Model struct {
	app       *dashboard.App
	ctx       context.Context
	exportDir string

	input   textinput.Model
	spinner spinner.Model
	loading bool

	dash    *view.DashboardView
	summary *search.ComparisonSummary
	markets []models.MarketDirectoryEntry
	toasts  []view.Toast

	width  int
	height int
}

// New builds the model. The app should already be started.
func New(ctx context.Context, app *dashboard.App, exportDir string) Model {
	styles := app.Theme.Styles()

	ti := textinput.New()
	ti.Prompt = "│ "
	ti.CharLimit = 120
	ti.Width = 60
	ti.PromptStyle = styles.Title
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Info

	m := Model{
		app:       app,
		ctx:       ctx,
		exportDir: exportDir,
		input:     ti,
		spinner:   sp,
		markets:   app.FilterMarkets("", "", ""),
	}
	if v, ok := app.DashboardView(); ok {
		m.dash = &v
	}
	if _, s, ok := app.Comparison(); ok {
		m.summary = &s
	}
	if app.Views.Active() == view.SectionLogin {
		_ = app.Views.Show(view.SectionDashboard)
	}
	m.setPlaceholder()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.navigate(1)
			return m, nil
		case tea.KeyShiftTab:
			m.navigate(-1)
			return m, nil
		case tea.KeyCtrlT:
			m.cycleTheme()
			return m, nil
		case tea.KeyCtrlE:
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.exportCmd()
		case tea.KeyCtrlA:
			if m.app.Views.Active() == view.SectionMarkets && len(m.markets) > 0 && !m.loading {
				m.loading = true
				return m, m.analyzeCmd(m.markets[0].Name)
			}
			return m, nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(20, msg.Width-6)
		return m, nil

	case searchDoneMsg:
		m.loading = false
		if msg.err == nil {
			v := msg.view
			m.dash = &v
		}
		m.collectToasts()
		return m, nil

	case compareDoneMsg:
		m.loading = false
		if msg.err == nil {
			s := msg.summary
			m.summary = &s
		}
		m.collectToasts()
		return m, nil

	case exportDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.app.Log.Warn("export failed", zap.Error(msg.err))
		}
		m.collectToasts()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// navigate moves step sections through the sidebar order, wrapping.
func (m *Model) navigate(step int) {
	active := m.app.Views.Active()
	idx := 0
	for i, s := range view.Sections {
		if s == active {
			idx = i
			break
		}
	}
	n := len(view.Sections)
	next := view.Sections[((idx+step)%n+n)%n]
	_ = m.app.Views.Show(next)
	if next == view.SectionMarkets {
		m.markets = m.app.FilterMarkets("", "", "")
	}
	m.input.SetValue("")
	m.setPlaceholder()
}

func (m *Model) cycleTheme() {
	active := m.app.Theme.Active()
	next := theme.Names[0]
	for i, n := range theme.Names {
		if n == active {
			next = theme.Names[(i+1)%len(theme.Names)]
			break
		}
	}
	if err := m.app.SaveSettings(string(next), m.app.Session.Region()); err != nil {
		m.app.Log.Warn("theme change failed", zap.Error(err))
	}
	styles := m.app.Theme.Styles()
	m.input.PromptStyle = styles.Title
	m.spinner.Style = styles.Info
	m.collectToasts()
}

func (m *Model) setPlaceholder() {
	switch m.app.Views.Active() {
	case view.SectionTrends:
		m.input.Placeholder = "Compare two products, e.g. maize vs beans"
	case view.SectionMarkets:
		m.input.Placeholder = "Filter markets by name or product"
	case view.SectionSettings:
		m.input.Placeholder = "Default region, e.g. Nairobi"
	case view.SectionProfile:
		m.input.Placeholder = "Press Enter to refresh your profile"
	default:
		m.input.Placeholder = "Enter a product to analyze, e.g. sukuma wiki"
	}
}

// submit runs the action of the active section for the input value.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	switch m.app.Views.Active() {
	case view.SectionTrends:
		k1, k2, ok := splitComparison(value)
		if !ok {
			m.app.Notifier.Warning("Please enter both products to compare")
			m.collectToasts()
			return m, nil
		}
		m.loading = true
		return m, m.compareCmd(k1, k2)
	case view.SectionMarkets:
		m.markets = m.app.FilterMarkets(value, "", "")
		return m, nil
	case view.SectionSettings:
		if err := m.app.SaveSettings(string(m.app.Theme.Active()), value); err != nil {
			m.app.Log.Warn("saving settings failed", zap.Error(err))
		}
		m.input.SetValue("")
		m.collectToasts()
		return m, nil
	case view.SectionProfile:
		if _, err := m.app.RefreshProfile(m.ctx); err != nil {
			m.app.Log.Warn("profile refresh failed", zap.Error(err))
		}
		m.collectToasts()
		return m, nil
	}
	m.loading = true
	m.input.SetValue("")
	return m, m.searchCmd(value)
}

// splitComparison splits "a vs b" or "a, b" into two keywords.
func splitComparison(s string) (string, string, bool) {
	for _, sep := range []string{" vs ", " VS ", ","} {
		if a, b, ok := strings.Cut(s, sep); ok {
			a, b = strings.TrimSpace(a), strings.TrimSpace(b)
			return a, b, a != "" && b != ""
		}
	}
	return "", "", false
}

func (m Model) searchCmd(keyword string) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		v, err := app.Search(ctx, keyword, "")
		return searchDoneMsg{view: v, err: err}
	}
}

func (m Model) analyzeCmd(market string) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		v, err := app.AnalyzeMarket(ctx, market)
		return searchDoneMsg{view: v, err: err}
	}
}

func (m Model) compareCmd(k1, k2 string) tea.Cmd {
	app, ctx := m.app, m.ctx
	return func() tea.Msg {
		s, err := app.Compare(ctx, k1, k2)
		return compareDoneMsg{summary: s, err: err}
	}
}

// exportCmd exports whatever the active section shows.
func (m Model) exportCmd() tea.Cmd {
	app, dir := m.app, m.exportDir
	section := app.Views.Active()
	return func() tea.Msg {
		var (
			path string
			err  error
		)
		switch section {
		case view.SectionMarkets:
			path, err = app.ExportMarkets(dir)
		case view.SectionProfile, view.SectionSettings:
			path, err = app.ExportUserData(dir, false)
		case view.SectionTrends:
			path, err = app.ExportChart(dir, "comparison1")
		default:
			path, err = app.ExportSearchReport(dir, "", "")
		}
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *Model) collectToasts() {
	m.toasts = append(m.toasts, m.app.Notifier.Drain()...)
	if len(m.toasts) > 3 {
		m.toasts = m.toasts[len(m.toasts)-3:]
	}
}

// Run starts the dashboard on the alternate screen and blocks until it
// exits. The system color scheme is polled in the background so the auto
// theme follows it.
func Run(ctx context.Context, app *dashboard.App, exportDir string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go app.Theme.Watch(ctx, theme.DetectDark, ThemePollInterval)

	p := tea.NewProgram(New(ctx, app, exportDir), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
