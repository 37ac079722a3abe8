package models

// DetailedAnalysis is the placeholder market analysis shown in the detailed
// view and in downloaded search reports.
type DetailedAnalysis struct {
	Keyword         string   `json:"keyword"`
	Region          string   `json:"region"`
	OverallScore    int      `json:"overallScore"`
	Trend           string   `json:"trend"`
	Competition     string   `json:"competition"`
	Risk            string   `json:"risk"`
	Sectors         []string `json:"sectors"`
	Regions         []string `json:"regions"`
	ShortTerm       int      `json:"shortTerm"`
	MediumTerm      int      `json:"mediumTerm"`
	LongTerm        int      `json:"longTerm"`
	Recommendations []string `json:"recommendations"`
}

// UserDataExport is the JSON form of the profile export.
type UserDataExport struct {
	ExportedAt string               `json:"exported_at"`
	Profile    Session              `json:"profile"`
	History    []SearchHistoryEntry `json:"search_history"`
}
