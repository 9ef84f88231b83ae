package rates

import (
	"context"
	"fmt"
	"net/http"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/ports"
)

type httpProvider struct {
	name       string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	adapter    providerAdapter
	logger     ports.Logger
}

// providerAdapter captures what differs between fiat providers: endpoint
// shape, auth and response parsing.
type providerAdapter struct {
	website        string
	defaultBaseURL string
	requiresKey    bool
	// partial providers quote a single pair that is merged into the table.
	partial       bool
	buildURL      func(baseURL, apiKey string) string
	setHeaders    func(*http.Request, string)
	parseResponse func([]byte) (map[string]float64, error)
}

func newHTTPProvider(name, apiKey, baseURL string, client *http.Client, adapter providerAdapter, logger ports.Logger) *httpProvider {
	if baseURL == "" {
		baseURL = adapter.defaultBaseURL
	}
	return &httpProvider{
		name:       name,
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: client,
		adapter:    adapter,
		logger:     logger,
	}
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) Configured() bool {
	return !p.adapter.requiresKey || p.apiKey != ""
}

func (p *httpProvider) FetchRates(ctx context.Context) (domain.RateQuote, error) {
	if !p.Configured() {
		return domain.RateQuote{}, fmt.Errorf("%w: %s", domain.ErrMissingAPIKey, p.name)
	}

	var setHeaders func(*http.Request)
	if p.adapter.setHeaders != nil {
		setHeaders = func(req *http.Request) { p.adapter.setHeaders(req, p.apiKey) }
	}

	body, err := fetch(ctx, p.httpClient, p.logger, p.name, p.adapter.buildURL(p.baseURL, p.apiKey), setHeaders)
	if err != nil {
		return domain.RateQuote{}, err
	}

	rates, err := p.adapter.parseResponse(body)
	if err != nil {
		return domain.RateQuote{}, fmt.Errorf("%s: %w", p.name, err)
	}
	if len(rates) == 0 {
		return domain.RateQuote{}, fmt.Errorf("%w: %s returned no rates", domain.ErrInvalidResponse, p.name)
	}
	return domain.RateQuote{Provider: p.name, Rates: rates, Partial: p.adapter.partial}, nil
}

var _ ports.RateProvider = (*httpProvider)(nil)
