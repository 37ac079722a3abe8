package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"twoknow/charts"
	"twoknow/theme"
	"twoknow/view"
)

const sparkWidth = 24

var sectionLabels = map[view.Section]string{
	view.SectionDashboard: "Dashboard",
	view.SectionSearch:    "History",
	view.SectionTrends:    "Trends",
	view.SectionMarkets:   "Markets",
	view.SectionProfile:   "Profile",
	view.SectionSettings:  "Settings",
}

func (m Model) View() string {
	st := m.app.Theme.Styles()
	title, subtitle := m.app.Views.Title()

	var b strings.Builder
	b.WriteString(st.Header.Render("2KNOW") + "  " + m.tabs(st))
	b.WriteString("\n\n")
	b.WriteString(st.Title.Render(title) + "\n")
	b.WriteString(st.Subtitle.Render(subtitle) + "\n\n")

	switch m.app.Views.Active() {
	case view.SectionDashboard:
		b.WriteString(m.dashboardView(st))
	case view.SectionSearch:
		b.WriteString(m.historyView(st))
	case view.SectionTrends:
		b.WriteString(m.trendsView(st))
	case view.SectionMarkets:
		b.WriteString(m.marketsView(st))
	case view.SectionProfile:
		b.WriteString(m.profileView(st))
	case view.SectionSettings:
		b.WriteString(m.settingsView(st))
	}

	b.WriteString("\n\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " Analyzing...\n")
	}
	b.WriteString(m.input.View() + "\n")
	for _, t := range m.toasts {
		b.WriteString(toastStyle(st, t.Level).Render(t.Message) + "\n")
	}
	b.WriteString(st.Muted.Render("tab/shift+tab section • enter run • ctrl+t theme • ctrl+e export • esc quit"))
	return st.App.Render(b.String())
}

func (m Model) tabs(st theme.Styles) string {
	active := m.app.Views.Active()
	parts := make([]string, 0, len(view.Sections))
	for _, s := range view.Sections {
		if s == active {
			parts = append(parts, st.ActiveTab.Render(sectionLabels[s]))
		} else {
			parts = append(parts, st.Tab.Render(sectionLabels[s]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func toastStyle(st theme.Styles, l view.Level) lipgloss.Style {
	switch l {
	case view.LevelSuccess:
		return st.Success
	case view.LevelWarning:
		return st.Warning
	case view.LevelError:
		return st.Error
	}
	return st.Info
}

func colored(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex))
}

func (m Model) dashboardView(st theme.Styles) string {
	if m.dash == nil {
		return st.Muted.Render("Search for a product to see its market potential.")
	}
	d := m.dash
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", st.Title.Render(d.Keyword), st.Muted.Render(d.RegionName))
	if d.Demo {
		b.WriteString(st.Warning.Render("Demo data") + "\n")
	}

	scores := lipgloss.JoinHorizontal(lipgloss.Top,
		st.Card.Render(fmt.Sprintf("Live Trend\n%s\n%s",
			colored(d.LiveColor).Render(fmt.Sprintf("%.0f", d.LiveScore)),
			colored(d.Indicator.Color).Render(d.Indicator.Label))),
		st.Card.Render(fmt.Sprintf("Overall Score\n%s\n%s",
			colored(d.OverallColor).Render(fmt.Sprintf("%.0f", d.OverallScore)),
			scoreBar(d.ScoreBar, 20))),
		st.Card.Render(fmt.Sprintf("Sector\n%s\n%s", d.Sector, strings.Join(d.Tags, " · "))),
		st.Card.Render(fmt.Sprintf("Hot Markets\n%d", d.HotMarkets)),
	)
	b.WriteString(scores + "\n")

	trend := m.app.Charts.Trend()
	if len(trend.Values) > 0 {
		fmt.Fprintf(&b, "%s %s", trend.Label, colored(trend.Color).Render(charts.Sparkline(trend.Values, sparkWidth)))
		if s, ok := m.app.Stats(); ok {
			fmt.Fprintf(&b, "  peak %d · avg %d · %s", s.Peak, s.Average, colored(s.Color).Render(s.Direction))
		}
		b.WriteString("\n")
	}

	for _, mk := range d.Markets {
		fmt.Fprintf(&b, "• %s %s\n", mk.Name, st.Tag.Render(mk.Tag))
	}
	for _, in := range d.Insights {
		fmt.Fprintf(&b, "%s: %s\n", st.Title.Render(in.Title), in.Description)
	}
	if d.DataSource != "" {
		b.WriteString(st.Muted.Render("Source: " + d.DataSource))
	}
	return b.String()
}

func scoreBar(pct, width int) string {
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func (m Model) historyView(st theme.Styles) string {
	items := m.app.History()
	if len(items) == 0 {
		return st.Muted.Render("No searches yet.")
	}
	var b strings.Builder
	for _, h := range items {
		fmt.Fprintf(&b, "%-24s %5.0f  %-14s %-12s %s\n",
			h.Keyword, h.Score, h.RegionName, h.Sector, st.Muted.Render(h.When))
	}
	return b.String()
}

func (m Model) trendsView(st theme.Styles) string {
	var b strings.Builder
	c1, c2 := m.app.Charts.Comparison()
	if len(c1.Values) > 0 || len(c2.Values) > 0 {
		fmt.Fprintf(&b, "%-16s %s\n", c1.Label, colored(c1.Color).Render(charts.Sparkline(c1.Values, sparkWidth)))
		fmt.Fprintf(&b, "%-16s %s\n", c2.Label, colored(c2.Color).Render(charts.Sparkline(c2.Values, sparkWidth)))
	} else {
		b.WriteString(st.Muted.Render("No comparison yet.") + "\n")
	}
	if m.summary != nil {
		s := m.summary
		fmt.Fprintf(&b, "%s\n%s  %s\n",
			st.Card.Render(s.Text),
			colored(s.Trend1.Color).Render(s.Trend1.Label),
			colored(s.Trend2.Color).Render(s.Trend2.Label))
	}

	pred := m.app.Charts.Prediction()
	fmt.Fprintf(&b, "\n%s %s\n", pred.Title, colored(pred.Color).Render(charts.Sparkline(pred.Values, sparkWidth)))
	if p, ok := m.app.Prediction(); ok {
		fmt.Fprintf(&b, "Last search %q scored %.0f against an average of %d: %s\n",
			p.LastSearch, p.LastScore, p.AverageScore, p.Trend)
	}
	return b.String()
}

func (m Model) marketsView(st theme.Styles) string {
	if len(m.markets) == 0 {
		return st.Muted.Render("No markets match your filters.")
	}
	var b strings.Builder
	for _, mk := range m.markets {
		fmt.Fprintf(&b, "%-24s %-10s %-12s %3d%%  %s\n",
			mk.Name, mk.Region, mk.Type, mk.Popularity, st.Muted.Render(strings.Join(mk.Products, ", ")))
	}
	b.WriteString(st.Muted.Render("ctrl+a analyzes the first market"))
	return b.String()
}

func (m Model) profileView(st theme.Styles) string {
	p := m.app.ProfileView()
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", st.Title.Render(p.Name), p.Email)
	if p.Bio != "" {
		b.WriteString(p.Bio + "\n")
	}
	if p.MemberSince != "" {
		b.WriteString(st.Muted.Render("Member since "+p.MemberSince) + "\n")
	}
	fmt.Fprintf(&b, "\nSearches %d · Reports %d\n", p.SearchCount, p.ReportCount)
	for _, a := range p.Activity {
		fmt.Fprintf(&b, "• %s %s\n", a.Text, st.Muted.Render(a.When))
	}
	if len(p.TopSearches) > 0 {
		b.WriteString("\nTop searches\n")
		for _, t := range p.TopSearches {
			fmt.Fprintf(&b, "  %-20s %d\n", t.Keyword, t.Count)
		}
	}
	return b.String()
}

func (m Model) settingsView(st theme.Styles) string {
	active := m.app.Theme.Active()
	var b strings.Builder
	b.WriteString("Theme  ")
	for _, n := range theme.Names {
		if n == active {
			b.WriteString(st.ActiveTab.Render(string(n)))
		} else {
			b.WriteString(st.Tab.Render(string(n)))
		}
	}
	fmt.Fprintf(&b, "\nRegion %s\n", m.app.Session.Region())
	b.WriteString(st.Muted.Render("ctrl+t cycles the theme, enter saves the region"))
	return b.String()
}
