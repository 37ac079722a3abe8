package trends

import "strings"

type marketCategory struct {
	name    string
	sectors []string
	markets []string
}

// kenyanMarkets maps sector keywords to the physical markets trading them.
// Order matters: the first category with a matching keyword wins.
var kenyanMarkets = []marketCategory{
	{
		name:    "Agriculture",
		sectors: []string{"agriculture", "farming", "agribusiness"},
		markets: []string{"Wakulima Market", "Kariakor Market", "Kisumu Market", "Mombasa Market"},
	},
	{
		name:    "Electronics",
		sectors: []string{"electronics", "technology", "phones", "computers"},
		markets: []string{"Biashara Street", "River Road", "Nyamakima", "Mombasa's Mwembe Tayari"},
	},
	{
		name:    "Automotive",
		sectors: []string{"automotive", "vehicles", "cars", "spare parts"},
		markets: []string{"Industrial Area", "Mombasa Road", "Kariobangi", "Gikomba"},
	},
	{
		name:    "Fashion",
		sectors: []string{"fashion", "clothing", "textiles"},
		markets: []string{"Gikomba", "Toi Market", "Muthurwa", "Kisumu's Kibuye"},
	},
}

var defaultMarkets = []string{"Nairobi CBD", "Mombasa", "Kisumu"}

// Classify returns the market sector for a keyword and the physical markets
// suggested for it.
func Classify(keyword string) (string, []string) {
	lower := strings.ToLower(keyword)
	for _, cat := range kenyanMarkets {
		for _, s := range cat.sectors {
			if strings.Contains(lower, s) {
				return cat.name, append([]string(nil), cat.markets...)
			}
		}
	}
	return "General", append([]string(nil), defaultMarkets...)
}

// DetectSector is the lighter keyword heuristic applied to search results.
func DetectSector(keyword string) string {
	lower := strings.ToLower(keyword)
	switch {
	case containsAny(lower, "maize", "corn", "wheat"):
		return "Agriculture"
	case containsAny(lower, "phone", "mobile"):
		return "Electronics"
	case containsAny(lower, "car", "vehicle"):
		return "Automotive"
	default:
		return "General"
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// mergeMarkets returns the ordered union of both lists, capped at limit.
func mergeMarkets(limit int, lists ...[]string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, limit)
	for _, list := range lists {
		for _, m := range list {
			if seen[m] {
				continue
			}
			seen[m] = true
			out = append(out, m)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
