package currency

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/doeshing/notecalc/internal/domain"
)

type stubCache struct {
	mu       sync.Mutex
	snapshot *domain.RateSnapshot
	loadErr  error
	saveErr  error
	saves    int
}

func (c *stubCache) Load() (domain.RateSnapshot, error) {
	if c.loadErr != nil {
		return domain.RateSnapshot{}, c.loadErr
	}
	if c.snapshot == nil {
		return domain.RateSnapshot{}, os.ErrNotExist
	}
	return *c.snapshot, nil
}

func (c *stubCache) Save(s domain.RateSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	c.snapshot = &s
	return nil
}

func (c *stubCache) Path() string { return "/stub/currency_rates.json" }

type stubProvider struct {
	name       string
	configured bool
	quote      domain.RateQuote
	err        error
	calls      int
}

func (p *stubProvider) Name() string     { return p.name }
func (p *stubProvider) Configured() bool { return p.configured }

func (p *stubProvider) FetchRates(context.Context) (domain.RateQuote, error) {
	p.calls++
	return p.quote, p.err
}

type stubCrypto struct {
	name       string
	prices     map[string]float64
	failing    map[string]bool
	batchErr   error
	calls      []string
	batchCalls int
}

func (c *stubCrypto) Name() string { return c.name }

func (c *stubCrypto) Price(_ context.Context, symbol string) (float64, error) {
	c.calls = append(c.calls, symbol)
	if c.failing[symbol] {
		return 0, errors.New("upstream error")
	}
	return c.prices[symbol], nil
}

func (c *stubCrypto) Prices(_ context.Context, symbols []string) (map[string]float64, error) {
	c.batchCalls++
	if c.batchErr != nil {
		return nil, c.batchErr
	}
	out := map[string]float64{}
	for _, s := range symbols {
		if p, ok := c.prices[s]; ok {
			out[s] = p
		}
	}
	return out, nil
}
