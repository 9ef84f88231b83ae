package domain

import "time"

// HistoryRecord captures one annotated line.
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Kind      LineKind  `json:"kind"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Value     float64   `json:"value"`
}
