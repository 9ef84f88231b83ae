package currency

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/ports"
)

// Rate table origins.
const (
	SourceCache    = "cache"
	SourceFallback = "fallback"
)

// RateStore is the in-memory rate table (units per 1 USD). USD is always
// present at 1.0. Every successful mutation is written through to the cache;
// a failed write is logged and the in-memory table stays authoritative.
type RateStore struct {
	mu     sync.RWMutex
	rates  map[string]float64
	source string
	cache  ports.RateCache
	logger ports.Logger
}

// NewRateStore loads the table from cache, or from the fallback snapshot
// when the cache is absent, unreadable or empty. cache may be nil.
func NewRateStore(cache ports.RateCache, logger ports.Logger) *RateStore {
	s := &RateStore{cache: cache, logger: logger}
	s.rates, s.source = s.load()
	s.rates[domain.BaseCurrency] = 1.0
	return s
}

func (s *RateStore) load() (map[string]float64, string) {
	if s.cache == nil {
		return FallbackRates(), SourceFallback
	}
	snapshot, err := s.cache.Load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.debug("rate cache not found, using fallback rates", map[string]interface{}{"path": s.cache.Path()})
		return FallbackRates(), SourceFallback
	case err != nil:
		s.warn("rate cache unreadable, using fallback rates", map[string]interface{}{"path": s.cache.Path(), "error": err.Error()})
		return FallbackRates(), SourceFallback
	}
	rates := sanitize(snapshot.Rates)
	if len(rates) == 0 {
		return FallbackRates(), SourceFallback
	}
	return rates, SourceCache
}

// Rate returns the rate for code, matched case-insensitively.
func (s *RateStore) Rate(code string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rate, ok := s.rates[strings.ToUpper(code)]
	return rate, ok
}

// Has reports whether code is known.
func (s *RateStore) Has(code string) bool {
	_, ok := s.Rate(code)
	return ok
}

// Codes returns all known codes in sorted order.
func (s *RateStore) Codes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]string, 0, len(s.rates))
	for code := range s.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Len returns the number of known codes.
func (s *RateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rates)
}

// Source tells whether the table was loaded from cache or the fallback.
// It becomes the cache once a mutation has been persisted.
func (s *RateStore) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Snapshot returns a copy of the table in its persisted form.
func (s *RateStore) Snapshot() domain.RateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Replace swaps the whole table for rates, pinning USD to 1.0.
func (s *RateStore) Replace(rates map[string]float64) error {
	clean := sanitize(rates)
	if len(clean) == 0 {
		return fmt.Errorf("%w: no usable rates", domain.ErrInvalidResponse)
	}
	clean[domain.BaseCurrency] = 1.0

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates = clean
	s.persistLocked()
	return nil
}

// Merge updates the given codes and keeps the rest of the table.
func (s *RateStore) Merge(rates map[string]float64) error {
	clean := sanitize(rates)
	delete(clean, domain.BaseCurrency)
	if len(clean) == 0 {
		return fmt.Errorf("%w: no usable rates", domain.ErrInvalidResponse)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for code, rate := range clean {
		s.rates[code] = rate
	}
	s.persistLocked()
	return nil
}

// Set updates a single code.
func (s *RateStore) Set(code string, rate float64) error {
	return s.Merge(map[string]float64{code: rate})
}

func (s *RateStore) snapshotLocked() domain.RateSnapshot {
	rates := make(map[string]float64, len(s.rates))
	for code, rate := range s.rates {
		rates[code] = rate
	}
	return domain.RateSnapshot{Base: domain.BaseCurrency, Rates: rates}
}

func (s *RateStore) persistLocked() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(s.snapshotLocked()); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to write rate cache", err, map[string]interface{}{"path": s.cache.Path()})
		}
		return
	}
	s.source = SourceCache
}

func (s *RateStore) debug(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, fields)
	}
}

func (s *RateStore) warn(msg string, fields map[string]interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, fields)
	}
}

// sanitize uppercases codes and drops non-positive or non-finite rates.
func sanitize(rates map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(rates))
	for code, rate := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
			continue
		}
		out[code] = rate
	}
	return out
}
