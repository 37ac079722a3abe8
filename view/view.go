// Package view holds the dashboard's section state and the view models the
// terminal front-end renders.
package view

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Section is one page of the dashboard.
type Section string

const (
	SectionLogin     Section = "login"
	SectionDashboard Section = "dashboard"
	SectionSearch    Section = "search"
	SectionTrends    Section = "trends"
	SectionMarkets   Section = "markets"
	SectionProfile   Section = "profile"
	SectionSettings  Section = "settings"
)

// Sections lists the navigable sections in sidebar order.
var Sections = []Section{SectionDashboard, SectionSearch, SectionTrends, SectionMarkets, SectionProfile, SectionSettings}

var ErrUnknownSection = errors.New("unknown section")

var titles = map[Section][2]string{
	SectionLogin:     {"Welcome to 2KNOW", "Sign in to analyze Kenyan market trends"},
	SectionDashboard: {"Market Intelligence Dashboard", "Real-time trend analysis for Kenyan markets"},
	SectionSearch:    {"Market Search & Analysis", "Advanced search and filtering capabilities"},
	SectionTrends:    {"Trend Analysis & Comparisons", "Historical data and market comparisons"},
	SectionMarkets:   {"Kenyan Market Directory", "Explore major markets across Kenya"},
	SectionProfile:   {"Your Profile", "Manage your account and preferences"},
	SectionSettings:  {"Settings", "Configure your 2KNOW experience"},
}

// Controller tracks the single active section.
type Controller struct {
	mu       sync.Mutex
	active   Section
	title    string
	subtitle string
	loaders  map[Section]func()
	log      *zap.Logger
}

func NewController(log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{loaders: make(map[Section]func()), log: log}
	c.setActive(SectionLogin)
	return c
}

// OnShow registers the loader run each time s becomes active.
func (c *Controller) OnShow(s Section, load func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaders[s] = load
}

// Show activates s, updates the title and runs its loader.
func (c *Controller) Show(s Section) error {
	if _, ok := titles[s]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	c.mu.Lock()
	c.setActive(s)
	load := c.loaders[s]
	c.mu.Unlock()

	c.log.Debug("section shown", zap.String("section", string(s)))
	if load != nil {
		load()
	}
	return nil
}

func (c *Controller) setActive(s Section) {
	c.active = s
	c.title, c.subtitle = titles[s][0], titles[s][1]
}

func (c *Controller) Active() Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Title returns the page title and subtitle of the active section.
func (c *Controller) Title() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.title, c.subtitle
}

// ParseSection validates a section name.
func ParseSection(s string) (Section, error) {
	sec := Section(s)
	if _, ok := titles[sec]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return sec, nil
}
