package entity

// Quote is a short motivational quote shown on the home surface
type Quote struct {
	Text   string `json:"quote"`
	Author string `json:"author"`
}

// HabitAnalysis is the coach-style analysis produced for a single habit
type HabitAnalysis struct {
	Summary               string   `json:"summary"`
	Recommendations       []string `json:"recommendations"`
	SuggestedImprovements []string `json:"suggestedImprovements"`
}
