package domain

import "time"

// HistoryItem is created once per successful solve and never updated.
type HistoryItem struct {
	ID        string    `json:"id"`
	Problem   Problem   `json:"problem"`
	Solution  Solution  `json:"solution"`
	Timestamp time.Time `json:"timestamp"`
}

type ExampleProblem struct {
	ID      string `json:"id"`
	Problem string `json:"problem"`
}
