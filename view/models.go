package view

import (
	"fmt"
	"math"
	"sort"
	"time"

	"twoknow/models"
	"twoknow/search"
)

var sectorTags = map[string][]string{
	"Agriculture": {"Crops", "Farming", "Produce"},
	"Electronics": {"Gadgets", "Tech", "Devices"},
	"Automotive":  {"Vehicles", "Cars", "Parts"},
	"Fashion":     {"Clothing", "Apparel", "Textiles"},
	"General":     {"Various", "Mixed", "General"},
}

// MarketTags returns the tags shown for a sector.
func MarketTags(sector string) []string {
	tags, ok := sectorTags[sector]
	if !ok {
		tags = sectorTags["General"]
	}
	return append([]string(nil), tags...)
}

// MarketItem is one row of the relevant markets list.
type MarketItem struct {
	Name string
	Tag  string
}

// DashboardView is the rendered state of the dashboard cards.
type DashboardView struct {
	Keyword      string
	RegionName   string
	LiveScore    float64
	OverallScore float64
	LiveColor    string
	OverallColor string
	ScoreBar     int
	Indicator    search.Band
	Sector       string
	Tags         []string
	HotMarkets   int
	Markets      []MarketItem
	Insights     []search.Insight
	DataSource   string
	Demo         bool
}

// NewDashboardView builds the dashboard cards for a result.
func NewDashboardView(r models.TrendResult, demo bool) DashboardView {
	sector := r.MarketSector
	if sector == "" {
		sector = "General"
	}
	v := DashboardView{
		Keyword:      r.Keyword,
		RegionName:   search.RegionName(r.Region),
		LiveScore:    r.LiveTrendScore,
		OverallScore: r.OverallScore,
		LiveColor:    search.ScoreBand(r.LiveTrendScore).Color,
		OverallColor: search.ScoreBand(r.OverallScore).Color,
		ScoreBar:     int(math.Max(0, math.Min(100, r.OverallScore))),
		Indicator:    search.ScoreBand(r.LiveTrendScore),
		Sector:       sector,
		Tags:         MarketTags(sector),
		HotMarkets:   len(r.RelevantMarkets),
		Insights:     search.DashboardInsights(r),
		DataSource:   r.DataSource,
		Demo:         demo,
	}
	for i, m := range r.RelevantMarkets {
		tag := "Active Market"
		if i < 3 {
			tag = "Top Market"
		}
		v.Markets = append(v.Markets, MarketItem{Name: m, Tag: tag})
	}
	return v
}

// Activity is one line of the recent activity list.
type Activity struct {
	Text string
	When string
}

// TopSearch is a keyword with its search count.
type TopSearch struct {
	Keyword string
	Count   int
}

// ProfileView is the rendered profile page.
type ProfileView struct {
	Name        string
	Email       string
	Bio         string
	Avatar      string
	MemberSince string
	SearchCount int
	ReportCount int
	Activity    []Activity
	TopSearches []TopSearch
}

// NewProfileView builds the profile page from the session and history.
func NewProfileView(sess models.Session, history []models.SearchHistoryEntry, now time.Time) ProfileView {
	v := ProfileView{
		Name:        sess.DisplayName,
		Email:       sess.Email,
		Bio:         sess.Bio,
		Avatar:      sess.Avatar,
		MemberSince: formatDate(sess.MemberSince, now),
		SearchCount: len(history),
		ReportCount: len(history) / 2,
	}
	if v.Name == "" {
		v.Name = "User"
	}
	if v.Email == "" {
		v.Email = "user@example.com"
	}

	for i, h := range history {
		if i == 5 {
			break
		}
		v.Activity = append(v.Activity, Activity{
			Text: fmt.Sprintf("Searched for %q in %s", h.Keyword, regionLabel(h.Region)),
			When: FormatTimeAgo(h.Timestamp, now),
		})
	}
	v.TopSearches = topSearches(history, 5)
	return v
}

func topSearches(history []models.SearchHistoryEntry, limit int) []TopSearch {
	var out []TopSearch
	index := make(map[string]int)
	for _, h := range history {
		if i, ok := index[h.Keyword]; ok {
			out[i].Count++
			continue
		}
		index[h.Keyword] = len(out)
		out = append(out, TopSearch{Keyword: h.Keyword, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// HistoryItem is one row of the search history list.
type HistoryItem struct {
	Keyword    string
	Score      float64
	RegionName string
	Sector     string
	When       string
}

// NewHistoryView renders the search history, newest first.
func NewHistoryView(history []models.SearchHistoryEntry, now time.Time) []HistoryItem {
	items := make([]HistoryItem, 0, len(history))
	for _, h := range history {
		items = append(items, HistoryItem{
			Keyword:    h.Keyword,
			Score:      h.Score,
			RegionName: regionLabel(h.Region),
			Sector:     h.Sector,
			When:       FormatTimeAgo(h.Timestamp, now),
		})
	}
	return items
}

func regionLabel(region string) string {
	if region == "" || region == search.DefaultRegion {
		return "Kenya"
	}
	return region
}

func formatDate(ts string, now time.Time) string {
	if ts == "" {
		return now.Format("2006-01-02")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ts
}

// FormatTimeAgo renders an RFC 3339 timestamp relative to now: "Just now",
// "5m ago", "3h ago", "2d ago", or the date after a week. Unparseable
// input is returned unchanged.
func FormatTimeAgo(ts string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	}
	return t.Format("2006-01-02")
}
