package domain

import "time"

// PerformanceReport summarizes a user's reviews over a period.
type PerformanceReport struct {
	Days           int                   `json:"days"`
	TotalReviews   int                   `json:"total_reviews"`
	CorrectReviews int                   `json:"correct_reviews"`
	Accuracy       float64               `json:"accuracy"`
	Categories     []CategoryPerformance `json:"categories"`
}

// CategoryPerformance is the per-category breakdown of a PerformanceReport.
type CategoryPerformance struct {
	Name     string  `json:"name"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// DailyProgress is one day of a progress report.
type DailyProgress struct {
	Date       time.Time `json:"date"`
	TotalCards int       `json:"total_cards"`
	Correct    int       `json:"correct"`
	Accuracy   float64   `json:"accuracy"`
}

// ReviewCounts is a total/correct pair of review counts.
type ReviewCounts struct {
	Total   int
	Correct int
}
