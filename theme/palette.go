package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the colors of one theme.
type Palette struct {
	Name       Name
	Background string
	Foreground string
	Primary    string
	Sidebar    string
	Card       string
	Border     string
	Muted      string
	Accent     string
	IsDark     bool
}

var palettes = map[Name]Palette{
	Light: {
		Name: Light, Background: "#ffffff", Foreground: "#1f2937", Primary: "#4F46E5",
		Sidebar: "#4F46E5", Card: "#ffffff", Border: "#e5e7eb", Muted: "#6B7280", Accent: "#10B981",
	},
	Dark: {
		Name: Dark, Background: "#1f2937", Foreground: "#f3f4f6", Primary: "#818cf8",
		Sidebar: "#111827", Card: "#374151", Border: "#4b5563", Muted: "#9ca3af", Accent: "#34d399",
		IsDark: true,
	},
	Purple: {
		Name: Purple, Background: "#faf8ff", Foreground: "#1f1a3f", Primary: "#7c3aed",
		Sidebar: "#6d28d9", Card: "#ffffff", Border: "#ddd6fe", Muted: "#6b5b95", Accent: "#e9d5ff",
	},
	Ocean: {
		Name: Ocean, Background: "#f0f9ff", Foreground: "#0c2340", Primary: "#0891b2",
		Sidebar: "#0369a1", Card: "#ffffff", Border: "#cffafe", Muted: "#47718a", Accent: "#06b6d4",
	},
	Forest: {
		Name: Forest, Background: "#f0fdf4", Foreground: "#0f2818", Primary: "#10b981",
		Sidebar: "#059669", Card: "#ffffff", Border: "#dcfce7", Muted: "#4b6b57", Accent: "#84cc16",
	},
	Sunset: {
		Name: Sunset, Background: "#fffbeb", Foreground: "#44280c", Primary: "#f97316",
		Sidebar: "#dc2626", Card: "#ffffff", Border: "#fed7aa", Muted: "#8a6440", Accent: "#fef3c7",
	},
}

// PaletteFor returns the palette of a concrete theme. Auto has no palette
// of its own and resolves to light.
func PaletteFor(n Name) Palette {
	if p, ok := palettes[n]; ok {
		return p
	}
	return palettes[Light]
}

func (p Palette) rules() string {
	var b strings.Builder
	rule := func(selector string, decls ...string) {
		fmt.Fprintf(&b, "%s { %s }\n", selector, strings.Join(decls, "; "))
	}
	rule("body, html", "background-color: "+p.Background, "color: "+p.Foreground)
	rule(".sidebar", "background: "+p.Sidebar)
	rule(".card, .stat-card, .market-card", "background: "+p.Card, "border-color: "+p.Border)
	rule(".btn-primary", "background: "+p.Primary)
	rule(".text-muted", "color: "+p.Muted)
	return b.String()
}

// Styles are the terminal styles derived from a palette.
type Styles struct {
	Palette Palette

	App       lipgloss.Style
	Header    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style
	Card      lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Tag       lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// NewStyles builds the terminal styles for p.
func NewStyles(p Palette) Styles {
	return Styles{
		Palette: p,

		App: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Foreground)),
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Sidebar)).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Italic(true),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Foreground)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color(p.Primary)).
			Padding(0, 1).
			Bold(true),
		Tag: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(p.Accent)).
			PaddingLeft(1),

		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
	}
}

// Styles builds terminal styles for the palette in effect.
func (e *Engine) Styles() Styles {
	return NewStyles(e.Palette())
}
