package domain

// Config mirrors ~/.notecalc/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Currency            CurrencySettings `yaml:"currency"`
	Preferences         Preferences      `yaml:"preferences"`
	History             HistorySettings  `yaml:"history"`
}

// CurrencySettings configures the rate service and its providers.
type CurrencySettings struct {
	Enabled                bool   `yaml:"enabled"`
	BaseCurrency           string `yaml:"base_currency"`
	Provider               string `yaml:"provider"`
	APIKey                 string `yaml:"api_key"`
	APIKeyEnv              string `yaml:"api_key_env"`
	CryptoAPIKey           string `yaml:"crypto_api_key"`
	CryptoAPIKeyEnv        string `yaml:"crypto_api_key_env"`
	RefreshIntervalMinutes int    `yaml:"refresh_interval_minutes"`
	LastRefresh            string `yaml:"last_refresh"`
}

// Preferences captures user level toggles.
type Preferences struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Color          string `yaml:"color"`
	Verbose        bool   `yaml:"verbose"`
}

// HistorySettings controls the evaluation log.
type HistorySettings struct {
	Enabled       bool `yaml:"enabled"`
	RetentionDays int  `yaml:"retention_days"`
}
