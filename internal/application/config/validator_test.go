package config

import (
	"strings"
	"testing"

	"github.com/doeshing/notecalc/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Currency: domain.CurrencySettings{
			Enabled:                true,
			BaseCurrency:           "USD",
			Provider:               "frankfurter",
			RefreshIntervalMinutes: 360,
		},
		Preferences: domain.Preferences{TimeoutSeconds: 15, Color: "auto"},
		History:     domain.HistorySettings{Enabled: true, RetentionDays: 90},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "provider case insensitive", mutate: func(c *domain.Config) { c.Currency.Provider = "Fixer" }},
		{name: "empty provider uses default", mutate: func(c *domain.Config) { c.Currency.Provider = "" }},
		{name: "crypto base", mutate: func(c *domain.Config) { c.Currency.BaseCurrency = "usdt" }},
		{name: "zero interval disables refresh", mutate: func(c *domain.Config) { c.Currency.RefreshIntervalMinutes = 0 }},
		{
			name:    "unknown provider",
			mutate:  func(c *domain.Config) { c.Currency.Provider = "bank" },
			wantErr: "currency.provider",
		},
		{
			name:    "base too short",
			mutate:  func(c *domain.Config) { c.Currency.BaseCurrency = "US" },
			wantErr: "currency.base_currency",
		},
		{
			name:    "base with digits",
			mutate:  func(c *domain.Config) { c.Currency.BaseCurrency = "US1" },
			wantErr: "currency.base_currency",
		},
		{
			name:    "negative interval",
			mutate:  func(c *domain.Config) { c.Currency.RefreshIntervalMinutes = -1 },
			wantErr: "refresh_interval_minutes",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *domain.Config) { c.Preferences.TimeoutSeconds = 0 },
			wantErr: "timeout_seconds",
		},
		{
			name:    "bad color",
			mutate:  func(c *domain.Config) { c.Preferences.Color = "rainbow" },
			wantErr: "preferences.color",
		},
		{
			name:    "negative retention",
			mutate:  func(c *domain.Config) { c.History.RetentionDays = -5 },
			wantErr: "retention_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
