package models

// InsightRequest asks the AI assistant for a narrative about a keyword.
type InsightRequest struct {
	Keyword string `json:"keyword"`
	Region  string `json:"region"`
}

// InsightResponse carries the generated narrative.
type InsightResponse struct {
	Keyword string `json:"keyword"`
	Region  string `json:"region"`
	Summary string `json:"summary"`
	Model   string `json:"model"`
}
