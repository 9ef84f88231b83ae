package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// CacheFilePermissions is the permission for the rate cache (rw-r--r--)
	CacheFilePermissions = 0o644
)

// Application paths, relative to the user's home directory.
const (
	AppDirName        = ".notecalc"
	ConfigFileName    = "config.yaml"
	CacheDirName      = "cache"
	RateCacheFileName = "currency_rates.json"
	HistoryDirName    = "history"
	HistoryDBFileName = "history.db"
	HistoryJSONLName  = "history.jsonl"
)

// Environment variables
const (
	EnvConfigPath     = "NOTECALC_CONFIG"
	EnvDebug          = "NOTECALC_DEBUG"
	EnvCurrencyAPIKey = "NOTECALC_CURRENCY_API_KEY"
	EnvCryptoAPIKey   = "NOTECALC_CRYPTO_API_KEY"
)

// Currency defaults
const (
	// BaseCurrency is the code every stored rate is expressed against.
	BaseCurrency = "USD"
	// DefaultRateProvider needs no API key.
	DefaultRateProvider = "frankfurter"
	// DefaultRefreshIntervalMinutes is six hours.
	DefaultRefreshIntervalMinutes = 360
)

// RateProviderNames lists the fiat providers accepted in currency.provider.
var RateProviderNames = []string{
	"alphavantage",
	"coinapi",
	"currencylayer",
	"exchangerate.host",
	"fixer",
	"frankfurter",
	"openexchangerates",
	"twelvedata",
}

// Timeout and duration constants
const (
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 15 * time.Second
	// StaleRateCacheAge marks the cache as stale in doctor output
	StaleRateCacheAge = 7 * 24 * time.Hour
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
	// DefaultHistoryRetainDays is the default number of days to retain history
	DefaultHistoryRetainDays = 90
)

// Color preferences
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
