package rates

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/pkg/logger"
)

func TestFactory_CryptoSources(t *testing.T) {
	factory := NewFactory(time.Second, logger.NewNop())

	primary, fallback := factory.CryptoSources("")
	if primary != nil {
		t.Fatalf("primary = %v without a key", primary)
	}
	if fallback == nil || fallback.Name() != CoinGecko {
		t.Fatalf("fallback = %v", fallback)
	}

	primary, _ = factory.CryptoSources("secret")
	if primary == nil || primary.Name() != FreeCryptoAPI {
		t.Fatalf("primary = %v with a key", primary)
	}
}

func TestFreeCrypto_Price(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantErr error
	}{
		{name: "string price", body: `{"status":"success","symbols":[{"symbol":"BTC","last":"64000.5"}]}`, want: 64000.5},
		{name: "numeric price", body: `{"status":"success","symbols":[{"last":2500}]}`, want: 2500},
		{name: "failed status", body: `{"status":"failed","symbols":[]}`, wantErr: domain.ErrInvalidResponse},
		{name: "zero price", body: `{"status":"success","symbols":[{"last":"0"}]}`, wantErr: domain.ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/getData" || r.URL.Query().Get("symbol") != "BTC" {
					t.Errorf("unexpected request %s", r.URL.String())
				}
				if got := r.Header.Get("Authorization"); got != "Bearer secret" {
					t.Errorf("Authorization = %q", got)
				}
				if got := r.Header.Get("Accept"); got != "application/json" {
					t.Errorf("Accept = %q", got)
				}
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			primary, _ := NewFactory(time.Second, logger.NewNop()).WithEndpoint(FreeCryptoAPI, server.URL).CryptoSources("secret")
			got, err := primary.Price(context.Background(), "btc")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Price() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Price() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Price() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoinGecko_PricesBatch(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		if r.URL.Path != "/api/v3/simple/price" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
			t.Errorf("vs_currencies = %q", got)
		}
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":64000},"matic-network":{"usd":0.5},"tether":{"usd":0}}`))
	}))
	defer server.Close()

	_, gecko := NewFactory(time.Second, logger.NewNop()).WithEndpoint(CoinGecko, server.URL).CryptoSources("")
	got, err := gecko.Prices(context.Background(), []string{"BTC", "MATIC", "USDT", "UNKNOWN"})
	if err != nil {
		t.Fatalf("Prices() error = %v", err)
	}

	want := map[string]float64{"BTC": 64000, "MATIC": 0.5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Prices() mismatch (-want +got):\n%s", diff)
	}
	if len(requests) != 1 {
		t.Fatalf("requests = %d, want a single batch", len(requests))
	}
	if !strings.Contains(requests[0], "ids=bitcoin,matic-network,tether") {
		t.Fatalf("query = %q", requests[0])
	}
}

func TestCoinGecko_PriceMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, gecko := NewFactory(time.Second, logger.NewNop()).WithEndpoint(CoinGecko, server.URL).CryptoSources("")
	if _, err := gecko.Price(context.Background(), "ETH"); !errors.Is(err, domain.ErrInvalidResponse) {
		t.Fatalf("Price() error = %v", err)
	}
	if _, err := gecko.Prices(context.Background(), []string{"NOPE"}); !errors.Is(err, domain.ErrInvalidResponse) {
		t.Fatalf("Prices(unknown ids) error = %v", err)
	}
}
