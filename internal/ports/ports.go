// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The calculation core and the application services depend only on these
// contracts. Concrete adapters (HTTP rate providers, the JSON rate cache, the
// YAML config loader, the SQLite history store) live in the infrastructure
// layer and are wired together by internal/app.
package ports

import (
	"context"

	"github.com/doeshing/notecalc/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.notecalc/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ConfigStore extends ConfigProvider with write access.
type ConfigStore interface {
	ConfigProvider
	Save(domain.Config) error
	Backup() (string, error)
	Reset() (domain.Config, error)
	Path() string
}

// RateProvider fetches fiat exchange rates from one remote service.
// Rates are expressed as units of currency per 1 USD.
type RateProvider interface {
	Name() string
	// Configured is false when the provider needs an API key and has none.
	Configured() bool
	FetchRates(ctx context.Context) (domain.RateQuote, error)
}

// CryptoPriceSource returns USD prices for crypto symbols.
type CryptoPriceSource interface {
	Name() string
	Price(ctx context.Context, symbol string) (float64, error)
	Prices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// RateCache persists the rate table between runs.
type RateCache interface {
	Load() (domain.RateSnapshot, error)
	Save(domain.RateSnapshot) error
	Path() string
}

// HistoryRepository stores annotated lines.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// ConfirmationPrompter asks the user before destructive operations.
type ConfirmationPrompter interface {
	Confirm(question string) (bool, error)
	Enabled() bool
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
