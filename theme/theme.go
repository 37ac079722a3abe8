// Package theme applies the dashboard color themes and tracks the system
// light/dark preference for the auto theme.
package theme

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Name identifies a theme.
type Name string

const (
	Light  Name = "light"
	Dark   Name = "dark"
	Auto   Name = "auto"
	Purple Name = "purple"
	Ocean  Name = "ocean"
	Forest Name = "forest"
	Sunset Name = "sunset"
)

// Names lists the selectable themes in menu order.
var Names = []Name{Light, Dark, Auto, Purple, Ocean, Forest, Sunset}

// Injected rule set ids.
const (
	DarkRulesID  = "dark-mode-styles"
	ThemeRulesID = "theme-mode-styles"
)

var ErrUnknownTheme = errors.New("unknown theme")

// Parse validates a theme name.
func Parse(s string) (Name, error) {
	n := Name(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Names {
		if n == known {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
}

func (n Name) class() string { return string(n) + "-theme" }

// Document is the themed state of the rendered page: the data-theme
// attribute, the theme classes and the injected rule sets by id.
type Document struct {
	DataTheme   string
	Classes     []string
	Rules       map[string]string
	ColorScheme string
}

func (d Document) HasClass(c string) bool {
	for _, x := range d.Classes {
		if x == c {
			return true
		}
	}
	return false
}

// Preferences persists the chosen theme.
type Preferences interface {
	Theme() string
	SetTheme(name string) error
}

// Engine applies themes to a Document.
type Engine struct {
	mu         sync.Mutex
	doc        Document
	active     Name
	palette    Palette
	systemDark bool
	prefs      Preferences
	log        *zap.Logger
}

// NewEngine returns an engine with no theme applied. prefs may be nil.
func NewEngine(prefs Preferences, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		doc:     Document{Rules: map[string]string{}},
		palette: palettes[Light],
		prefs:   prefs,
		log:     log,
	}
}

// Init applies the stored theme, or light when none is stored or the stored
// name is unknown.
func (e *Engine) Init(systemDark bool) Name {
	e.mu.Lock()
	e.systemDark = systemDark
	e.mu.Unlock()

	name := Light
	if e.prefs != nil {
		if n, err := Parse(e.prefs.Theme()); err == nil {
			name = n
		}
	}
	if err := e.Apply(string(name)); err != nil {
		e.log.Warn("applying stored theme failed", zap.Error(err))
	}
	return name
}

// Apply switches to the named theme. Applying the same theme twice yields
// the same document. An unknown name leaves everything unchanged.
func (e *Engine) Apply(name string) error {
	n, err := Parse(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.apply(n)
	e.mu.Unlock()

	if e.prefs != nil {
		if err := e.prefs.SetTheme(string(n)); err != nil {
			return fmt.Errorf("saving theme: %w", err)
		}
	}
	return nil
}

func (e *Engine) apply(n Name) {
	e.doc.Classes = []string{n.class()}
	e.doc.Rules = map[string]string{}
	e.doc.DataTheme = string(n)
	e.active = n

	effective := n
	if n == Auto {
		effective = Light
		if e.systemDark {
			effective = Dark
		}
	}
	p := palettes[effective]
	e.palette = p

	switch effective {
	case Light:
		e.doc.ColorScheme = "light"
	case Dark:
		e.doc.ColorScheme = "dark"
		e.doc.Rules[DarkRulesID] = p.rules()
	default:
		e.doc.ColorScheme = "light"
		e.doc.Rules[ThemeRulesID] = p.rules()
	}
	e.log.Debug("theme applied", zap.String("theme", string(n)), zap.String("effective", string(effective)))
}

// SystemPreferenceChanged records the system preference and re-applies the
// auto theme when it is the stored choice.
func (e *Engine) SystemPreferenceChanged(dark bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.systemDark == dark {
		return
	}
	e.systemDark = dark

	stored := e.active
	if e.prefs != nil {
		stored = Name(e.prefs.Theme())
	}
	if stored == Auto {
		e.apply(Auto)
	}
}

// Watch polls detect every interval and forwards changes to
// SystemPreferenceChanged until ctx is done.
func (e *Engine) Watch(ctx context.Context, detect func() bool, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.SystemPreferenceChanged(detect())
		}
	}
}

// Active is the applied theme name.
func (e *Engine) Active() Name {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Palette is the palette currently in effect.
func (e *Engine) Palette() Palette {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.palette
}

// Document returns a copy of the themed document state.
func (e *Engine) Document() Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := Document{
		DataTheme:   e.doc.DataTheme,
		Classes:     append([]string(nil), e.doc.Classes...),
		Rules:       make(map[string]string, len(e.doc.Rules)),
		ColorScheme: e.doc.ColorScheme,
	}
	for k, v := range e.doc.Rules {
		d.Rules[k] = v
	}
	return d
}

// RuleIDs lists the injected rule sets, sorted.
func (d Document) RuleIDs() []string {
	ids := make([]string, 0, len(d.Rules))
	for id := range d.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DetectDark guesses whether the terminal background is dark from
// COLORFGBG ("fg;bg", dark when bg is 0-6 or 8) or TWOKNOW_DARK_MODE=1.
func DetectDark() bool {
	if v := os.Getenv("COLORFGBG"); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if (bg >= 0 && bg <= 6) || bg == 8 {
				return true
			}
		}
	}
	return os.Getenv("TWOKNOW_DARK_MODE") == "1"
}
