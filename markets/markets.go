// Package markets is the static directory of Kenyan markets shown on the
// markets page.
package markets

import (
	"fmt"
	"sort"
	"strings"

	"twoknow/models"
)

var directory = []models.MarketDirectoryEntry{
	{
		ID: 1, Name: "Wakulima Market", Region: "Nairobi", Type: "agriculture",
		Description: "Largest fresh produce distribution market in East Africa",
		Products:    []string{"Vegetables", "Fruits", "Grains", "Spices", "Livestock"},
		Location:    "Nairobi CBD", Established: "1960", Size: "Large", Activity: "Very High",
		BestFor: []string{"Fresh Produce", "Wholesale", "Export Quality"},
		Hours:   "6:00 AM - 6:00 PM", Popularity: 95,
	},
	{
		ID: 2, Name: "Kariakor Market", Region: "Nairobi", Type: "general",
		Description: "Established general market with mixed goods and textiles",
		Products:    []string{"Textiles", "Clothing", "Household Items", "Cooking Utensils"},
		Location:    "Ngara", Established: "1919", Size: "Medium", Activity: "High",
		BestFor: []string{"Crafts", "Household Goods"},
		Hours:   "7:00 AM - 6:00 PM", Popularity: 78,
	},
	{
		ID: 3, Name: "Gikomba Market", Region: "Nairobi", Type: "clothing",
		Description: "Africa's largest second-hand clothing market",
		Products:    []string{"Second-hand Clothes", "Shoes", "Accessories", "Vintage Items"},
		Location:    "Gikomba", Established: "1950", Size: "Very Large", Activity: "Very High",
		BestFor: []string{"Bulk Clothing", "Affordable Fashion", "Resellers"},
		Hours:   "5:00 AM - 7:00 PM", Popularity: 92,
	},
	{
		ID: 4, Name: "Biashara Street", Region: "Nairobi", Type: "electronics",
		Description: "Premier electronics hub for phones and computers",
		Products:    []string{"Mobile Phones", "Computers", "Electronics", "Tech Accessories"},
		Location:    "Nairobi CBD", Established: "1970", Size: "Medium", Activity: "High",
		BestFor: []string{"Phones", "Repairs", "Accessories"},
		Hours:   "8:00 AM - 7:00 PM", Popularity: 84,
	},
	{
		ID: 5, Name: "Muthurwa Market", Region: "Nairobi", Type: "agriculture",
		Description: "Busy open-air market for vegetables and cereals near the railway",
		Products:    []string{"Vegetables", "Cereals", "Potatoes", "Onions"},
		Location:    "Muthurwa", Established: "2009", Size: "Large", Activity: "High",
		BestFor: []string{"Retail Produce", "Low Prices"},
		Hours:   "5:00 AM - 8:00 PM", Popularity: 74,
	},
	{
		ID: 6, Name: "Kongowea Market", Region: "Mombasa", Type: "agriculture",
		Description: "The coast's main wholesale market for fruits and vegetables",
		Products:    []string{"Fruits", "Vegetables", "Coconuts", "Cereals"},
		Location:    "Nyali", Established: "1973", Size: "Large", Activity: "Very High",
		BestFor: []string{"Wholesale", "Coastal Produce"},
		Hours:   "5:00 AM - 6:00 PM", Popularity: 88,
	},
	{
		ID: 7, Name: "Marikiti Market", Region: "Mombasa", Type: "general",
		Description: "Old town market with spices, foodstuffs and household goods",
		Products:    []string{"Spices", "Foodstuffs", "Household Items", "Fish"},
		Location:    "Mombasa Old Town", Established: "1899", Size: "Medium", Activity: "High",
		BestFor: []string{"Spices", "Tourism"},
		Hours:   "6:00 AM - 6:00 PM", Popularity: 71,
	},
	{
		ID: 8, Name: "Kibuye Market", Region: "Kisumu", Type: "general",
		Description: "One of East Africa's largest open-air markets with fish and second-hand goods",
		Products:    []string{"Fish", "Clothing", "Grains", "Household Items"},
		Location:    "Kibuye", Established: "1930", Size: "Very Large", Activity: "Very High",
		BestFor: []string{"Fish", "Bulk Buying"},
		Hours:   "6:00 AM - 7:00 PM", Popularity: 86,
	},
	{
		ID: 9, Name: "Nakuru Wakulima Market", Region: "Nakuru", Type: "agriculture",
		Description: "Rift Valley hub for farm produce from surrounding counties",
		Products:    []string{"Vegetables", "Maize", "Potatoes", "Dairy"},
		Location:    "Nakuru Town", Established: "1965", Size: "Large", Activity: "High",
		BestFor: []string{"Farm Produce", "Wholesale"},
		Hours:   "6:00 AM - 6:00 PM", Popularity: 76,
	},
	{
		ID: 10, Name: "Eldoret Main Market", Region: "Eldoret", Type: "agriculture",
		Description: "Grain basket market trading maize, wheat and livestock",
		Products:    []string{"Maize", "Wheat", "Livestock", "Dairy"},
		Location:    "Eldoret Town", Established: "1958", Size: "Medium", Activity: "Medium",
		BestFor: []string{"Grains", "Livestock"},
		Hours:   "7:00 AM - 6:00 PM", Popularity: 66,
	},
	{
		ID: 11, Name: "Luthuli Avenue", Region: "Nairobi", Type: "electronics",
		Description: "Street of electronics wholesalers and accessory shops",
		Products:    []string{"Electronics", "Speakers", "Mobile Phones", "Cables"},
		Location:    "Nairobi CBD", Established: "1980", Size: "Medium", Activity: "High",
		BestFor: []string{"Wholesale Electronics", "Accessories"},
		Hours:   "8:00 AM - 8:00 PM", Popularity: 80,
	},
	{
		ID: 12, Name: "Toi Market", Region: "Nairobi", Type: "clothing",
		Description: "Second-hand clothing and household goods market near Kibera",
		Products:    []string{"Second-hand Clothes", "Shoes", "Household Items"},
		Location:    "Kibera", Established: "1980", Size: "Medium", Activity: "High",
		BestFor: []string{"Affordable Fashion", "Resellers"},
		Hours:   "6:00 AM - 7:00 PM", Popularity: 68,
	},
}

// All returns a copy of the directory.
func All() []models.MarketDirectoryEntry {
	return clone(directory)
}

func clone(entries []models.MarketDirectoryEntry) []models.MarketDirectoryEntry {
	out := make([]models.MarketDirectoryEntry, len(entries))
	for i, e := range entries {
		e.Products = append([]string(nil), e.Products...)
		e.BestFor = append([]string(nil), e.BestFor...)
		out[i] = e
	}
	return out
}

// Filter returns the entries whose name, description or a product contains
// search (case-insensitive) and whose region and type equal the given
// values. Empty criteria match everything.
func Filter(search, region, marketType string) []models.MarketDirectoryEntry {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []models.MarketDirectoryEntry
	for _, m := range directory {
		if region != "" && m.Region != region {
			continue
		}
		if marketType != "" && m.Type != marketType {
			continue
		}
		if search != "" && !matches(m, search) {
			continue
		}
		out = append(out, m)
	}
	return clone(out)
}

func matches(m models.MarketDirectoryEntry, term string) bool {
	if strings.Contains(strings.ToLower(m.Name), term) || strings.Contains(strings.ToLower(m.Description), term) {
		return true
	}
	for _, p := range m.Products {
		if strings.Contains(strings.ToLower(p), term) {
			return true
		}
	}
	return false
}

// Find looks a market up by exact name.
func Find(name string) (models.MarketDirectoryEntry, bool) {
	for _, m := range directory {
		if m.Name == name {
			return clone([]models.MarketDirectoryEntry{m})[0], true
		}
	}
	return models.MarketDirectoryEntry{}, false
}

func FindByID(id int) (models.MarketDirectoryEntry, bool) {
	for _, m := range directory {
		if m.ID == id {
			return clone([]models.MarketDirectoryEntry{m})[0], true
		}
	}
	return models.MarketDirectoryEntry{}, false
}

// SearchTerm is the keyword analyzed for a market: its first product,
// lowercased, or the market name when it lists none.
func SearchTerm(m models.MarketDirectoryEntry) string {
	if len(m.Products) > 0 {
		return strings.ToLower(m.Products[0])
	}
	return m.Name
}

// Insight describes a market by its popularity.
func Insight(m models.MarketDirectoryEntry) string {
	switch {
	case m.Popularity >= 85:
		return "one of the most popular markets in the region with consistently high traffic."
	case m.Popularity >= 70:
		return "a well-established market with steady customer flow and good variety."
	default:
		return "a growing market with potential for expansion and increasing popularity."
	}
}

// Regions lists the distinct regions in directory order.
func Regions() []string {
	return distinct(func(m models.MarketDirectoryEntry) string { return m.Region })
}

// Types lists the distinct market types, sorted.
func Types() []string {
	types := distinct(func(m models.MarketDirectoryEntry) string { return m.Type })
	sort.Strings(types)
	return types
}

func distinct(field func(models.MarketDirectoryEntry) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range directory {
		v := field(m)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// ResultsLabel renders "1 market found" / "n markets found".
func ResultsLabel(n int) string {
	if n == 1 {
		return "1 market found"
	}
	return fmt.Sprintf("%d markets found", n)
}

// TypeLabel capitalizes a market type for display.
func TypeLabel(t string) string {
	if t == "" {
		return t
	}
	return strings.ToUpper(t[:1]) + t[1:]
}
