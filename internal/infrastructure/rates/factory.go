package rates

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/ports"
)

const (
	freeCryptoBaseURL = "https://api.freecryptoapi.com"
	coinGeckoBaseURL  = "https://api.coingecko.com"
)

// Factory builds rate providers sharing one HTTP client.
type Factory struct {
	httpClient *http.Client
	logger     ports.Logger
	endpoints  map[string]string
}

// NewFactory returns a factory whose client times out after timeout.
func NewFactory(timeout time.Duration, logger ports.Logger) *Factory {
	if timeout <= 0 {
		timeout = domain.DefaultHTTPClientTimeout
	}
	return &Factory{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		endpoints:  map[string]string{},
	}
}

// WithEndpoint overrides the base URL of a provider or crypto source, e.g.
// a self-hosted Frankfurter instance.
func (f *Factory) WithEndpoint(name, baseURL string) *Factory {
	f.endpoints[strings.ToLower(name)] = strings.TrimRight(baseURL, "/")
	return f
}

// ForProvider returns the fiat provider registered under name.
func (f *Factory) ForProvider(name, apiKey string) (ports.RateProvider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	adapter, ok := fiatAdapters[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, name)
	}
	return newHTTPProvider(key, apiKey, f.endpoints[key], f.httpClient, adapter, f.logger), nil
}

// CryptoSources returns the primary and fallback crypto sources. The
// primary is nil without an API key.
func (f *Factory) CryptoSources(apiKey string) (primary, fallback ports.CryptoPriceSource) {
	fallback = &coinGeckoSource{
		baseURL:    f.endpointOr(CoinGecko, coinGeckoBaseURL),
		httpClient: f.httpClient,
		logger:     f.logger,
	}
	if apiKey == "" {
		return nil, fallback
	}
	primary = &freeCryptoSource{
		apiKey:     apiKey,
		baseURL:    f.endpointOr(FreeCryptoAPI, freeCryptoBaseURL),
		httpClient: f.httpClient,
		logger:     f.logger,
	}
	return primary, fallback
}

func (f *Factory) endpointOr(name, fallback string) string {
	if v := f.endpoints[name]; v != "" {
		return v
	}
	return fallback
}
