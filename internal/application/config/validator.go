package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/doeshing/notecalc/internal/domain"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Za-z]{3,5}$`)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateCurrency(cfg.Currency); err != nil {
		return err
	}
	if err := validatePreferences(cfg.Preferences); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	return nil
}

func validateCurrency(c domain.CurrencySettings) error {
	if provider := c.GetProvider(); !slices.Contains(domain.RateProviderNames, provider) {
		return fmt.Errorf("currency.provider %q is not one of %s", c.Provider, strings.Join(domain.RateProviderNames, ", "))
	}
	if c.BaseCurrency != "" && !currencyCodePattern.MatchString(c.BaseCurrency) {
		return fmt.Errorf("currency.base_currency must be 3-5 letters, got %q", c.BaseCurrency)
	}
	if c.RefreshIntervalMinutes < 0 {
		return fmt.Errorf("currency.refresh_interval_minutes must be >= 0")
	}
	return nil
}

func validatePreferences(p domain.Preferences) error {
	if p.TimeoutSeconds <= 0 {
		return fmt.Errorf("preferences.timeout_seconds must be > 0")
	}
	switch strings.ToLower(p.Color) {
	case "", domain.ColorAuto, domain.ColorAlways, domain.ColorNever:
	default:
		return fmt.Errorf("preferences.color must be auto|always|never, got %s", p.Color)
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	if history.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must be >= 0")
	}
	return nil
}
