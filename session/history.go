package session

import (
	"encoding/json"
	"time"

	"twoknow/models"

	"go.uber.org/zap"
)

// History returns the stored searches, most recent first. Corrupt data
// reads as an empty history.
func (s *Store) History() []models.SearchHistoryEntry {
	raw := s.get(KeyHistory)
	if raw == "" {
		return nil
	}
	var entries []models.SearchHistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn("discarding corrupt search history", zap.Error(err))
		return nil
	}
	return entries
}

// AddToHistory prepends a search, dropping an older entry with the same
// keyword and region, and keeps at most MaxHistory entries.
func (s *Store) AddToHistory(keyword string, result models.TrendResult) ([]models.SearchHistoryEntry, error) {
	entry := models.SearchHistoryEntry{
		Keyword:   keyword,
		Region:    result.Region,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Score:     result.OverallScore,
		Sector:    result.MarketSector,
	}
	if entry.Region == "" {
		entry.Region = "KE"
	}
	if entry.Sector == "" {
		entry.Sector = "General"
	}

	history := s.History()
	out := make([]models.SearchHistoryEntry, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h.Keyword == entry.Keyword && h.Region == entry.Region {
			continue
		}
		out = append(out, h)
	}
	if len(out) > MaxHistory {
		out = out[:MaxHistory]
	}

	b, err := json.Marshal(out)
	if err != nil {
		return history, err
	}
	if err := s.set(KeyHistory, string(b)); err != nil {
		return history, err
	}
	return out, nil
}
