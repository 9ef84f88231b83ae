package rates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/doeshing/notecalc/internal/domain"
)

// Fiat provider names as they appear in config.
const (
	Frankfurter       = "frankfurter"
	OpenExchangeRates = "openexchangerates"
	ExchangeRateHost  = "exchangerate.host"
	AlphaVantage      = "alphavantage"
	TwelveData        = "twelvedata"
	CoinAPI           = "coinapi"
	Fixer             = "fixer"
	CurrencyLayer     = "currencylayer"
)

var fiatAdapters = map[string]providerAdapter{
	Frankfurter: {
		website:        "https://frankfurter.dev",
		defaultBaseURL: "https://api.frankfurter.dev",
		buildURL: func(base, _ string) string {
			return base + "/v1/latest?base=USD"
		},
		parseResponse: parseRatesObject,
	},
	OpenExchangeRates: {
		website:        "https://openexchangerates.org",
		defaultBaseURL: "https://openexchangerates.org",
		requiresKey:    true,
		buildURL: func(base, key string) string {
			return base + "/api/latest.json?app_id=" + url.QueryEscape(key)
		},
		parseResponse: parseRatesObject,
	},
	ExchangeRateHost: {
		website:        "https://exchangerate.host",
		defaultBaseURL: "https://api.exchangerate.host",
		requiresKey:    true,
		buildURL: func(base, key string) string {
			return base + "/live?access_key=" + url.QueryEscape(key)
		},
		parseResponse: parseQuotesObject,
	},
	AlphaVantage: {
		website:        "https://www.alphavantage.co",
		defaultBaseURL: "https://www.alphavantage.co",
		requiresKey:    true,
		partial:        true,
		buildURL: func(base, key string) string {
			return base + "/query?function=FX_DAILY&from_symbol=EUR&to_symbol=USD&apikey=" + url.QueryEscape(key)
		},
		parseResponse: parseAlphaVantage,
	},
	TwelveData: {
		website:        "https://twelvedata.com",
		defaultBaseURL: "https://api.twelvedata.com",
		requiresKey:    true,
		partial:        true,
		buildURL: func(base, key string) string {
			return base + "/exchange_rate?symbol=EUR/USD&apikey=" + url.QueryEscape(key)
		},
		parseResponse: parseTwelveData,
	},
	CoinAPI: {
		website:        "https://www.coinapi.io",
		defaultBaseURL: "https://rest.coinapi.io",
		requiresKey:    true,
		buildURL: func(base, _ string) string {
			return base + "/v1/exchangerate/USD"
		},
		setHeaders: func(req *http.Request, key string) {
			req.Header.Set("X-CoinAPI-Key", key)
		},
		parseResponse: parseCoinAPI,
	},
	Fixer: {
		website:        "https://fixer.io",
		defaultBaseURL: "https://data.fixer.io",
		requiresKey:    true,
		buildURL: func(base, key string) string {
			return base + "/api/latest?access_key=" + url.QueryEscape(key)
		},
		parseResponse: parseRatesObject,
	},
	CurrencyLayer: {
		website:        "https://currencylayer.com",
		defaultBaseURL: "https://api.currencylayer.com",
		requiresKey:    true,
		buildURL: func(base, key string) string {
			return base + "/live?access_key=" + url.QueryEscape(key)
		},
		parseResponse: parseQuotesObject,
	},
}

// Providers lists the supported fiat providers sorted by name.
func Providers() []domain.ProviderInfo {
	infos := make([]domain.ProviderInfo, 0, len(fiatAdapters))
	for name, adapter := range fiatAdapters {
		infos = append(infos, domain.ProviderInfo{Name: name, RequiresKey: adapter.requiresKey, Website: adapter.website})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// IsKnownProvider reports whether name is a supported fiat provider.
func IsKnownProvider(name string) bool {
	_, ok := fiatAdapters[strings.ToLower(name)]
	return ok
}

// apiStatus is the error envelope shared by the apilayer family
// (exchangerate.host, currencylayer, fixer).
type apiStatus struct {
	Success *bool `json:"success"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
}

func (s apiStatus) err() error {
	if s.Success == nil || *s.Success {
		return nil
	}
	if s.Error != nil {
		detail := s.Error.Info
		if detail == "" {
			detail = s.Error.Type
		}
		return fmt.Errorf("%w: provider error %d: %s", domain.ErrInvalidResponse, s.Error.Code, detail)
	}
	return fmt.Errorf("%w: provider reported failure", domain.ErrInvalidResponse)
}

// parseRatesObject reads {"base": "...", "rates": {"EUR": 0.92}}. Tables
// quoted against another base are rebased to USD.
func parseRatesObject(body []byte) (map[string]float64, error) {
	var payload struct {
		apiStatus
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if err := payload.err(); err != nil {
		return nil, err
	}
	base := strings.ToUpper(payload.Base)
	if base == "" || base == domain.BaseCurrency {
		return payload.Rates, nil
	}

	usd, ok := payload.Rates[domain.BaseCurrency]
	if !ok || usd <= 0 {
		return nil, fmt.Errorf("%w: table based on %s has no USD rate", domain.ErrInvalidResponse, base)
	}
	rebased := make(map[string]float64, len(payload.Rates)+1)
	for code, rate := range payload.Rates {
		rebased[code] = rate / usd
	}
	rebased[base] = 1 / usd
	rebased[domain.BaseCurrency] = 1
	return rebased, nil
}

// parseQuotesObject reads {"quotes": {"USDEUR": 0.92}}.
func parseQuotesObject(body []byte) (map[string]float64, error) {
	var payload struct {
		apiStatus
		Quotes map[string]float64 `json:"quotes"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if err := payload.err(); err != nil {
		return nil, err
	}
	rates := make(map[string]float64, len(payload.Quotes))
	for pair, rate := range payload.Quotes {
		pair = strings.ToUpper(pair)
		// Only USD-based pairs map to a code; cross pairs like EURGBP are skipped.
		if !strings.HasPrefix(pair, domain.BaseCurrency) {
			continue
		}
		code := strings.TrimPrefix(pair, domain.BaseCurrency)
		if code == "" {
			code = domain.BaseCurrency
		}
		rates[code] = rate
	}
	return rates, nil
}

// parseCoinAPI reads {"rates": [{"asset_id_quote": "EUR", "rate": 0.92}]}.
func parseCoinAPI(body []byte) (map[string]float64, error) {
	var payload struct {
		Error string `json:"error"`
		Rates []struct {
			Quote string  `json:"asset_id_quote"`
			Rate  float64 `json:"rate"`
		} `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, payload.Error)
	}
	rates := make(map[string]float64, len(payload.Rates))
	for _, r := range payload.Rates {
		if r.Quote != "" {
			rates[strings.ToUpper(r.Quote)] = r.Rate
		}
	}
	return rates, nil
}

// parseAlphaVantage takes the latest daily close of EUR/USD.
func parseAlphaVantage(body []byte) (map[string]float64, error) {
	var payload struct {
		Note         string                       `json:"Note"`
		Information  string                       `json:"Information"`
		ErrorMessage string                       `json:"Error Message"`
		Series       map[string]map[string]string `json:"Time Series FX (Daily)"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if len(payload.Series) == 0 {
		msg := firstNonEmpty(payload.ErrorMessage, payload.Note, payload.Information, "missing daily series")
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, msg)
	}

	latest := ""
	for day := range payload.Series {
		if day > latest {
			latest = day
		}
	}
	closing, err := strconv.ParseFloat(payload.Series[latest]["4. close"], 64)
	if err != nil || closing <= 0 {
		return nil, fmt.Errorf("%w: bad close for %s", domain.ErrInvalidResponse, latest)
	}
	return map[string]float64{"EUR": 1 / closing}, nil
}

// parseTwelveData reads {"symbol": "EUR/USD", "rate": 1.08}.
func parseTwelveData(body []byte) (map[string]float64, error) {
	var payload struct {
		Status  string      `json:"status"`
		Message string      `json:"message"`
		Rate    json.Number `json:"rate"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if payload.Status == "error" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, payload.Message)
	}
	rate, err := payload.Rate.Float64()
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("%w: missing EUR/USD rate", domain.ErrInvalidResponse)
	}
	return map[string]float64{"EUR": 1 / rate}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
