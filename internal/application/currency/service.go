package currency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/pkg/logger"
	"github.com/doeshing/notecalc/internal/ports"
)

// Service answers conversion requests from the RateStore and refreshes it
// from remote providers.
//
// Provider is nil when the configured provider name is unknown; the fiat
// refresh then fails but crypto still runs. CryptoPrimary is only set when a
// crypto API key is configured.
type Service struct {
	Store          *RateStore
	Provider       ports.RateProvider
	ProviderName   string
	CryptoPrimary  ports.CryptoPriceSource
	CryptoFallback ports.CryptoPriceSource
	Logger         ports.Logger
	Now            func() time.Time
}

// Convert converts amount between two codes through USD. Both codes must be
// known.
func (s *Service) Convert(amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	fromRate, ok := s.Store.Rate(from)
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownCurrency, from)
	}
	toRate, ok := s.Store.Rate(to)
	if !ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrUnknownCurrency, to)
	}
	if from == to {
		return amount, nil
	}
	return amount / fromRate * toRate, nil
}

// ParseAndConvert parses a currency line and converts it. base is the target
// of the short "<amount> <CODE>" form.
func (s *Service) ParseAndConvert(expr, base string) (domain.CurrencyConversion, error) {
	req, err := ParseExpression(expr, base)
	if err != nil {
		return domain.CurrencyConversion{}, err
	}
	converted, err := s.Convert(req.Amount, req.From, req.To)
	if err != nil {
		return domain.CurrencyConversion{}, err
	}
	return domain.CurrencyConversion{Amount: req.Amount, From: req.From, To: req.To, Converted: converted}, nil
}

// RefreshRates runs the fiat refresh and then the crypto refresh. The crypto
// refresh runs whatever the fiat outcome.
func (s *Service) RefreshRates(ctx context.Context) domain.RefreshReport {
	report := domain.RefreshReport{Provider: s.ProviderName, StartedAt: s.now()}
	s.refreshFiat(ctx, &report)
	s.refreshCrypto(ctx, &report)
	report.FinishedAt = s.now()

	s.log().Info("rate refresh finished", map[string]interface{}{
		"provider":       report.Provider,
		"fiat_updated":   report.FiatUpdated,
		"crypto_updated": len(report.CryptoUpdated),
		"crypto_failed":  len(report.CryptoFailed),
	})
	return report
}

// RefreshAsync runs RefreshRates in the background. The channel receives one
// report and is then closed. Overlapping refreshes are allowed; the last one
// to write wins.
func (s *Service) RefreshAsync(ctx context.Context) <-chan domain.RefreshReport {
	ch := make(chan domain.RefreshReport, 1)
	go func() {
		defer close(ch)
		ch <- s.RefreshRates(ctx)
	}()
	return ch
}

func (s *Service) refreshFiat(ctx context.Context, report *domain.RefreshReport) {
	if s.Provider == nil {
		report.FiatErr = fmt.Errorf("%w: %q", domain.ErrUnknownProvider, s.ProviderName)
		s.log().Warn("fiat refresh skipped", map[string]interface{}{"provider": s.ProviderName, "reason": "unknown provider"})
		return
	}
	if !s.Provider.Configured() {
		report.FiatSkipped = true
		report.FiatErr = fmt.Errorf("%w: %s", domain.ErrMissingAPIKey, s.Provider.Name())
		s.log().Warn("fiat refresh skipped", map[string]interface{}{"provider": s.Provider.Name(), "reason": "missing api key"})
		return
	}

	quote, err := s.Provider.FetchRates(ctx)
	if err != nil {
		report.FiatErr = err
		s.log().Warn("fiat refresh failed", map[string]interface{}{"provider": s.Provider.Name(), "error": err.Error()})
		return
	}

	if quote.Partial {
		err = s.Store.Merge(quote.Rates)
	} else {
		err = s.Store.Replace(quote.Rates)
	}
	if err != nil {
		report.FiatErr = err
		s.log().Warn("fiat refresh rejected", map[string]interface{}{"provider": s.Provider.Name(), "error": err.Error()})
		return
	}
	report.FiatUpdated = len(quote.Rates)
}

// refreshCrypto fetches symbols one at a time from the primary source,
// falling back per symbol. Without a primary source all symbols come from
// the fallback in a single batch.
func (s *Service) refreshCrypto(ctx context.Context, report *domain.RefreshReport) {
	symbols := CryptoSymbols()

	if s.CryptoPrimary == nil {
		if s.CryptoFallback == nil {
			return
		}
		report.CryptoSource = s.CryptoFallback.Name()
		prices, err := s.CryptoFallback.Prices(ctx, symbols)
		if err != nil {
			s.log().Warn("crypto refresh failed", map[string]interface{}{"source": s.CryptoFallback.Name(), "error": err.Error()})
			report.CryptoFailed = symbols
			return
		}
		for _, symbol := range symbols {
			s.applyCrypto(report, symbol, prices[symbol])
		}
		return
	}

	report.CryptoSource = s.CryptoPrimary.Name()
	for _, symbol := range symbols {
		if ctx.Err() != nil {
			report.CryptoFailed = append(report.CryptoFailed, symbol)
			continue
		}
		price, err := s.CryptoPrimary.Price(ctx, symbol)
		if (err != nil || price <= 0) && s.CryptoFallback != nil {
			s.log().Debug("crypto price falling back", map[string]interface{}{"symbol": symbol, "source": s.CryptoFallback.Name()})
			price, err = s.CryptoFallback.Price(ctx, symbol)
		}
		if err != nil {
			s.log().Warn("crypto price unavailable", map[string]interface{}{"symbol": symbol, "error": err.Error()})
			price = 0
		}
		s.applyCrypto(report, symbol, price)
	}
}

// applyCrypto stores rate = 1 / usdPrice.
func (s *Service) applyCrypto(report *domain.RefreshReport, symbol string, usdPrice float64) {
	if usdPrice <= 0 {
		report.CryptoFailed = append(report.CryptoFailed, symbol)
		return
	}
	if err := s.Store.Set(symbol, 1/usdPrice); err != nil {
		report.CryptoFailed = append(report.CryptoFailed, symbol)
		return
	}
	report.CryptoUpdated = append(report.CryptoUpdated, symbol)
}

func (s *Service) log() ports.Logger {
	if s.Logger == nil {
		return logger.NewNop()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
