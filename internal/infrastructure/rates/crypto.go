package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/ports"
)

// Crypto source names.
const (
	FreeCryptoAPI = "freecryptoapi"
	CoinGecko     = "coingecko"
)

var coinGeckoIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"USDT":  "tether",
	"USDC":  "usd-coin",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"SOL":   "solana",
	"TRX":   "tron",
	"DOT":   "polkadot",
	"LTC":   "litecoin",
	"MATIC": "matic-network",
}

// freeCryptoSource queries FreeCryptoAPI one symbol at a time. It needs a
// bearer token.
type freeCryptoSource struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     ports.Logger
}

func (s *freeCryptoSource) Name() string {
	return FreeCryptoAPI
}

func (s *freeCryptoSource) Price(ctx context.Context, symbol string) (float64, error) {
	endpoint := s.baseURL + "/v1/getData?symbol=" + url.QueryEscape(strings.ToUpper(symbol))
	body, err := fetch(ctx, s.httpClient, s.logger, FreeCryptoAPI, endpoint, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	})
	if err != nil {
		return 0, err
	}
	return parseFreeCrypto(body)
}

// Prices asks for each symbol in turn; the API has no batch endpoint.
func (s *freeCryptoSource) Prices(ctx context.Context, symbols []string) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		price, err := s.Price(ctx, symbol)
		if err != nil {
			continue
		}
		out[symbol] = price
	}
	return out, nil
}

// parseFreeCrypto reads {"status": "success", "symbols": [{"last": "64000.1"}]}.
// The price arrives as a string or a number.
func parseFreeCrypto(body []byte) (float64, error) {
	var payload struct {
		Status  string `json:"status"`
		Symbols []struct {
			Last json.RawMessage `json:"last"`
		} `json:"symbols"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if payload.Status != "success" || len(payload.Symbols) == 0 {
		return 0, fmt.Errorf("%w: freecryptoapi status %q", domain.ErrInvalidResponse, payload.Status)
	}
	raw := strings.Trim(string(payload.Symbols[0].Last), `"`)
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("%w: freecryptoapi price %q", domain.ErrInvalidResponse, raw)
	}
	return price, nil
}

// coinGeckoSource uses the free simple/price endpoint.
type coinGeckoSource struct {
	baseURL    string
	httpClient *http.Client
	logger     ports.Logger
}

func (s *coinGeckoSource) Name() string {
	return CoinGecko
}

func (s *coinGeckoSource) Price(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(symbol)
	prices, err := s.Prices(ctx, []string{symbol})
	if err != nil {
		return 0, err
	}
	price, ok := prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%w: coingecko has no price for %s", domain.ErrInvalidResponse, symbol)
	}
	return price, nil
}

// Prices fetches every known symbol in one request.
func (s *coinGeckoSource) Prices(ctx context.Context, symbols []string) (map[string]float64, error) {
	var ids []string
	for _, symbol := range symbols {
		if id, ok := coinGeckoIDs[strings.ToUpper(symbol)]; ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no coingecko ids for %v", domain.ErrInvalidResponse, symbols)
	}

	endpoint := s.baseURL + "/api/v3/simple/price?ids=" + strings.Join(ids, ",") + "&vs_currencies=usd"
	body, err := fetch(ctx, s.httpClient, s.logger, CoinGecko, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload map[string]map[string]float64
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	out := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		upper := strings.ToUpper(symbol)
		if price := payload[coinGeckoIDs[upper]]["usd"]; price > 0 {
			out[upper] = price
		}
	}
	return out, nil
}

var (
	_ ports.CryptoPriceSource = (*freeCryptoSource)(nil)
	_ ports.CryptoPriceSource = (*coinGeckoSource)(nil)
)
