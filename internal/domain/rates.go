package domain

import "time"

// RateSnapshot is the persisted form of the rate table:
// {"base": "USD", "rates": {"EUR": 0.92, ...}}.
type RateSnapshot struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// RateQuote is what a fiat provider returns. Partial quotes carry a subset
// of pairs and are merged into the table instead of replacing it.
type RateQuote struct {
	Provider string
	Rates    map[string]float64
	Partial  bool
}

// ProviderInfo describes a fiat rate provider.
type ProviderInfo struct {
	Name        string
	RequiresKey bool
	Website     string
}

// RefreshReport summarizes one refresh cycle. Fiat and crypto outcomes are
// independent.
type RefreshReport struct {
	Provider      string
	FiatUpdated   int
	FiatSkipped   bool
	FiatErr       error
	CryptoSource  string
	CryptoUpdated []string
	CryptoFailed  []string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Succeeded reports whether any rate was updated.
func (r RefreshReport) Succeeded() bool {
	return r.FiatUpdated > 0 || len(r.CryptoUpdated) > 0
}
