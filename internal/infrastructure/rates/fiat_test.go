package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/pkg/logger"
)

func TestFiatProviders_FetchRates(t *testing.T) {
	tests := []struct {
		name        string
		provider    string
		apiKey      string
		wantPath    string
		wantQuery   map[string]string
		wantHeader  map[string]string
		body        string
		want        map[string]float64
		wantPartial bool
	}{
		{
			name:      "frankfurter rates object",
			provider:  Frankfurter,
			wantPath:  "/v1/latest",
			wantQuery: map[string]string{"base": "USD"},
			body:      `{"amount":1.0,"base":"USD","date":"2026-10-13","rates":{"EUR":0.92,"TRY":35.5}}`,
			want:      map[string]float64{"EUR": 0.92, "TRY": 35.5},
		},
		{
			name:      "openexchangerates app id",
			provider:  OpenExchangeRates,
			apiKey:    "oxr-key",
			wantPath:  "/api/latest.json",
			wantQuery: map[string]string{"app_id": "oxr-key"},
			body:      `{"base":"USD","rates":{"USD":1,"GBP":0.79}}`,
			want:      map[string]float64{"USD": 1, "GBP": 0.79},
		},
		{
			name:      "exchangerate.host quotes skip cross pairs",
			provider:  ExchangeRateHost,
			apiKey:    "erh",
			wantPath:  "/live",
			wantQuery: map[string]string{"access_key": "erh"},
			body:      `{"success":true,"source":"USD","quotes":{"USDEUR":0.92,"USDJPY":157,"EURGBP":0.85}}`,
			want:      map[string]float64{"EUR": 0.92, "JPY": 157},
		},
		{
			name:      "currencylayer quotes",
			provider:  CurrencyLayer,
			apiKey:    "cl",
			wantPath:  "/live",
			wantQuery: map[string]string{"access_key": "cl"},
			body:      `{"success":true,"quotes":{"USDUSD":1,"USDCHF":0.88}}`,
			want:      map[string]float64{"USD": 1, "CHF": 0.88},
		},
		{
			name:       "coinapi header auth",
			provider:   CoinAPI,
			apiKey:     "coin-key",
			wantPath:   "/v1/exchangerate/USD",
			wantHeader: map[string]string{"X-CoinAPI-Key": "coin-key"},
			body:       `{"asset_id_base":"USD","rates":[{"asset_id_quote":"EUR","rate":0.92},{"asset_id_quote":"btc","rate":0.000023}]}`,
			want:       map[string]float64{"EUR": 0.92, "BTC": 0.000023},
		},
		{
			name:      "fixer rebased from EUR",
			provider:  Fixer,
			apiKey:    "fx",
			wantPath:  "/api/latest",
			wantQuery: map[string]string{"access_key": "fx"},
			body:      `{"success":true,"base":"EUR","rates":{"USD":1.25,"GBP":1.0}}`,
			want:      map[string]float64{"USD": 1, "EUR": 0.8, "GBP": 0.8},
		},
		{
			name:        "alphavantage latest close",
			provider:    AlphaVantage,
			apiKey:      "av",
			wantPath:    "/query",
			wantQuery:   map[string]string{"function": "FX_DAILY", "from_symbol": "EUR", "to_symbol": "USD", "apikey": "av"},
			body:        `{"Time Series FX (Daily)":{"2026-10-12":{"4. close":"1.0000"},"2026-10-13":{"4. close":"1.2500"}}}`,
			want:        map[string]float64{"EUR": 0.8},
			wantPartial: true,
		},
		{
			name:        "twelvedata pair rate",
			provider:    TwelveData,
			apiKey:      "td",
			wantPath:    "/exchange_rate",
			wantQuery:   map[string]string{"symbol": "EUR/USD", "apikey": "td"},
			body:        `{"symbol":"EUR/USD","rate":1.25,"timestamp":1760000000}`,
			want:        map[string]float64{"EUR": 0.8},
			wantPartial: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != tt.wantPath {
					t.Errorf("path = %q, want %q", r.URL.Path, tt.wantPath)
				}
				for k, v := range tt.wantQuery {
					if got := r.URL.Query().Get(k); got != v {
						t.Errorf("query %s = %q, want %q", k, got, v)
					}
				}
				for k, v := range tt.wantHeader {
					if got := r.Header.Get(k); got != v {
						t.Errorf("header %s = %q, want %q", k, got, v)
					}
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			factory := NewFactory(time.Second, logger.NewNop()).WithEndpoint(tt.provider, server.URL)
			provider, err := factory.ForProvider(tt.provider, tt.apiKey)
			if err != nil {
				t.Fatalf("ForProvider() error = %v", err)
			}

			quote, err := provider.FetchRates(context.Background())
			if err != nil {
				t.Fatalf("FetchRates() error = %v", err)
			}
			if quote.Partial != tt.wantPartial {
				t.Fatalf("Partial = %v, want %v", quote.Partial, tt.wantPartial)
			}
			if diff := cmp.Diff(tt.want, quote.Rates, approx()); diff != "" {
				t.Fatalf("Rates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFiatProviders_Failures(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		status   int
		body     string
		wantErr  error
	}{
		{name: "server error", provider: Frankfurter, status: http.StatusBadGateway, body: `oops`, wantErr: domain.ErrNetwork},
		{name: "not json", provider: Frankfurter, status: http.StatusOK, body: `<html>`, wantErr: domain.ErrInvalidResponse},
		{name: "empty table", provider: Frankfurter, status: http.StatusOK, body: `{"rates":{}}`, wantErr: domain.ErrInvalidResponse},
		{
			name:     "apilayer error envelope",
			provider: CurrencyLayer,
			status:   http.StatusOK,
			body:     `{"success":false,"error":{"code":101,"type":"invalid_access_key","info":"You have not supplied a valid API Access Key."}}`,
			wantErr:  domain.ErrInvalidResponse,
		},
		{name: "alphavantage rate limit note", provider: AlphaVantage, status: http.StatusOK, body: `{"Note":"Thank you for using Alpha Vantage!"}`, wantErr: domain.ErrInvalidResponse},
		{name: "twelvedata error", provider: TwelveData, status: http.StatusOK, body: `{"code":401,"message":"apikey invalid","status":"error"}`, wantErr: domain.ErrInvalidResponse},
		{name: "rebase without usd", provider: Fixer, status: http.StatusOK, body: `{"base":"EUR","rates":{"GBP":0.85}}`, wantErr: domain.ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			factory := NewFactory(time.Second, logger.NewNop()).WithEndpoint(tt.provider, server.URL)
			provider, err := factory.ForProvider(tt.provider, "key")
			if err != nil {
				t.Fatalf("ForProvider() error = %v", err)
			}
			if _, err := provider.FetchRates(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Fatalf("FetchRates() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_ForProvider(t *testing.T) {
	factory := NewFactory(0, logger.NewNop())

	if _, err := factory.ForProvider("bank-of-nowhere", ""); !errors.Is(err, domain.ErrUnknownProvider) {
		t.Fatalf("ForProvider(unknown) error = %v", err)
	}

	tests := []struct {
		name           string
		apiKey         string
		wantConfigured bool
	}{
		{name: "Frankfurter", wantConfigured: true},
		{name: "fixer", wantConfigured: false},
		{name: "fixer", apiKey: "k", wantConfigured: true},
	}
	for _, tt := range tests {
		p, err := factory.ForProvider(tt.name, tt.apiKey)
		if err != nil {
			t.Fatalf("ForProvider(%s) error = %v", tt.name, err)
		}
		if p.Configured() != tt.wantConfigured {
			t.Fatalf("%s Configured() = %v, want %v", tt.name, p.Configured(), tt.wantConfigured)
		}
	}
}

func TestFetchRates_MissingKeyMakesNoRequest(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer server.Close()

	provider, _ := NewFactory(time.Second, logger.NewNop()).WithEndpoint(Fixer, server.URL).ForProvider(Fixer, "")
	if _, err := provider.FetchRates(context.Background()); !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("FetchRates() error = %v", err)
	}
	if hits != 0 {
		t.Fatalf("server hit %d times", hits)
	}
}

func TestProviders(t *testing.T) {
	infos := Providers()
	if len(infos) != 8 {
		t.Fatalf("Providers() returned %d entries", len(infos))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Fatalf("Providers() not sorted: %s before %s", infos[i-1].Name, infos[i].Name)
		}
	}
	for _, info := range infos {
		if info.Name == Frankfurter && info.RequiresKey {
			t.Fatal("frankfurter should not require a key")
		}
		if !IsKnownProvider(info.Name) {
			t.Fatalf("IsKnownProvider(%s) = false", info.Name)
		}
	}

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	if diff := cmp.Diff(domain.RateProviderNames, names); diff != "" {
		t.Fatalf("domain.RateProviderNames out of sync (-want +got):\n%s", diff)
	}
}

func approx() cmp.Option {
	return cmp.Comparer(func(a, b float64) bool {
		d := a - b
		return d < 1e-9 && d > -1e-9
	})
}
