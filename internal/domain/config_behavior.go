package domain

import (
	"os"
	"strings"
	"time"
)

// ResolveAPIKey returns the fiat provider key, preferring the literal value
// over the environment variable named by APIKeyEnv.
func (c *CurrencySettings) ResolveAPIKey() string {
	return resolveKey(c.APIKey, c.APIKeyEnv)
}

// ResolveCryptoAPIKey returns the crypto provider key using the same lookup
// order as ResolveAPIKey.
func (c *CurrencySettings) ResolveCryptoAPIKey() string {
	return resolveKey(c.CryptoAPIKey, c.CryptoAPIKeyEnv)
}

func resolveKey(literal, envName string) string {
	if key := strings.TrimSpace(literal); key != "" {
		return key
	}
	if envName == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(envName))
}

// GetBaseCurrency returns the uppercased base currency, USD when unset.
func (c *CurrencySettings) GetBaseCurrency() string {
	base := strings.ToUpper(strings.TrimSpace(c.BaseCurrency))
	if base == "" {
		return BaseCurrency
	}
	return base
}

// GetProvider returns the configured fiat provider name, lowercased.
func (c *CurrencySettings) GetProvider() string {
	name := strings.ToLower(strings.TrimSpace(c.Provider))
	if name == "" {
		return DefaultRateProvider
	}
	return name
}

// LastRefreshTime parses LastRefresh. The zero time is returned when the
// value is empty or malformed.
func (c *CurrencySettings) LastRefreshTime() time.Time {
	if c.LastRefresh == "" {
		return time.Time{}
	}
	ts, err := time.Parse(TimestampFormat, c.LastRefresh)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// MarkRefreshed records a successful refresh at the given instant.
func (c *CurrencySettings) MarkRefreshed(at time.Time) {
	c.LastRefresh = at.UTC().Format(TimestampFormat)
}

// RefreshDue reports whether rates should be refreshed at now.
// A zero interval disables automatic refresh.
func (c *CurrencySettings) RefreshDue(now time.Time) bool {
	if !c.Enabled || c.RefreshIntervalMinutes <= 0 {
		return false
	}
	last := c.LastRefreshTime()
	if last.IsZero() {
		return true
	}
	return now.Sub(last) >= time.Duration(c.RefreshIntervalMinutes)*time.Minute
}

// GetTimeoutSeconds returns the HTTP timeout in seconds
func (c *Config) GetTimeoutSeconds() int {
	if c.Preferences.TimeoutSeconds <= 0 {
		return int(DefaultHTTPClientTimeout / time.Second)
	}
	return c.Preferences.TimeoutSeconds
}

// GetHistoryRetentionDays returns the number of days to retain history
func (c *Config) GetHistoryRetentionDays() int {
	if c.History.RetentionDays <= 0 {
		return DefaultHistoryRetainDays
	}
	return c.History.RetentionDays
}

// ColorMode returns the normalized color preference.
func (c *Config) ColorMode() string {
	switch strings.ToLower(c.Preferences.Color) {
	case ColorAlways:
		return ColorAlways
	case ColorNever:
		return ColorNever
	default:
		return ColorAuto
	}
}
