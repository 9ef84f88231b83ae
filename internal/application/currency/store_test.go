package currency

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/pkg/logger"
)

func TestNewRateStore_Sources(t *testing.T) {
	tests := []struct {
		name       string
		cache      *stubCache
		wantSource string
		wantEUR    float64
	}{
		{name: "nil cache uses fallback", cache: nil, wantSource: SourceFallback, wantEUR: 0.92},
		{name: "missing cache file", cache: &stubCache{}, wantSource: SourceFallback, wantEUR: 0.92},
		{name: "unreadable cache", cache: &stubCache{loadErr: errors.New("bad json")}, wantSource: SourceFallback, wantEUR: 0.92},
		{
			name:       "empty cached table",
			cache:      &stubCache{snapshot: &domain.RateSnapshot{Base: "USD", Rates: map[string]float64{}}},
			wantSource: SourceFallback,
			wantEUR:    0.92,
		},
		{
			name:       "cached rates win",
			cache:      &stubCache{snapshot: &domain.RateSnapshot{Base: "USD", Rates: map[string]float64{"eur": 0.9}}},
			wantSource: SourceCache,
			wantEUR:    0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var store *RateStore
			if tt.cache == nil {
				store = NewRateStore(nil, logger.NewNop())
			} else {
				store = NewRateStore(tt.cache, logger.NewNop())
			}
			if got := store.Source(); got != tt.wantSource {
				t.Fatalf("Source() = %q, want %q", got, tt.wantSource)
			}
			if got, _ := store.Rate("EUR"); got != tt.wantEUR {
				t.Fatalf("Rate(EUR) = %v, want %v", got, tt.wantEUR)
			}
			if usd, ok := store.Rate("usd"); !ok || usd != 1 {
				t.Fatalf("Rate(usd) = %v, %v; want 1", usd, ok)
			}
		})
	}
}

func TestRateStore_ReplacePinsUSDAndPersists(t *testing.T) {
	cache := &stubCache{}
	store := NewRateStore(cache, logger.NewNop())

	err := store.Replace(map[string]float64{"USD": 3, "eur": 0.95, "GBP": 0.8, "BAD": -1, "": 2})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	want := map[string]float64{"USD": 1, "EUR": 0.95, "GBP": 0.8}
	if diff := cmp.Diff(want, store.Snapshot().Rates); diff != "" {
		t.Fatalf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	if cache.saves != 1 {
		t.Fatalf("cache saves = %d, want 1", cache.saves)
	}
	if diff := cmp.Diff(store.Snapshot(), *cache.snapshot); diff != "" {
		t.Fatalf("persisted snapshot mismatch (-memory +disk):\n%s", diff)
	}
	if store.Has("JPY") {
		t.Fatal("Replace() kept a code missing from the new table")
	}
}

func TestRateStore_ReplaceRejectsEmpty(t *testing.T) {
	cache := &stubCache{}
	store := NewRateStore(cache, logger.NewNop())
	before := store.Len()

	if err := store.Replace(map[string]float64{"XXX": 0}); !errors.Is(err, domain.ErrInvalidResponse) {
		t.Fatalf("Replace() error = %v, want invalid response", err)
	}
	if store.Len() != before || cache.saves != 0 {
		t.Fatalf("rejected Replace() mutated the store: len %d -> %d, saves %d", before, store.Len(), cache.saves)
	}
}

func TestRateStore_MergeAndSet(t *testing.T) {
	cache := &stubCache{}
	store := NewRateStore(cache, logger.NewNop())

	if err := store.Merge(map[string]float64{"EUR": 0.5, "USD": 7}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if err := store.Set("btc", 0.00001); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if eur, _ := store.Rate("EUR"); eur != 0.5 {
		t.Fatalf("EUR = %v, want 0.5", eur)
	}
	if usd, _ := store.Rate("USD"); usd != 1 {
		t.Fatalf("USD = %v, want 1", usd)
	}
	if btc, _ := store.Rate("BTC"); btc != 0.00001 {
		t.Fatalf("BTC = %v", btc)
	}
	if _, ok := store.Rate("JPY"); !ok {
		t.Fatal("Merge() dropped untouched codes")
	}
	if cache.saves != 2 {
		t.Fatalf("cache saves = %d, want 2", cache.saves)
	}
	if store.Source() != SourceCache {
		t.Fatalf("Source() = %q after persisted mutation", store.Source())
	}
}

func TestRateStore_SaveFailureKeepsMemory(t *testing.T) {
	cache := &stubCache{saveErr: errors.New("read-only filesystem")}
	store := NewRateStore(cache, logger.NewNop())

	if err := store.Set("EUR", 0.7); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if eur, _ := store.Rate("EUR"); eur != 0.7 {
		t.Fatalf("EUR = %v, want 0.7", eur)
	}
	if store.Source() != SourceFallback {
		t.Fatalf("Source() = %q, want fallback while writes fail", store.Source())
	}
}

func TestRateStore_Codes(t *testing.T) {
	store := NewRateStore(&stubCache{snapshot: &domain.RateSnapshot{Rates: map[string]float64{"EUR": 1, "AUD": 2}}}, logger.NewNop())
	if diff := cmp.Diff([]string{"AUD", "EUR", "USD"}, store.Codes()); diff != "" {
		t.Fatalf("Codes() mismatch (-want +got):\n%s", diff)
	}
}

func TestFallbackRates_IsCopy(t *testing.T) {
	rates := FallbackRates()
	rates["USD"] = 42
	if FallbackRates()["USD"] != 1 {
		t.Fatal("FallbackRates() exposed the shared table")
	}
	for _, symbol := range CryptoSymbols() {
		if _, ok := rates[symbol]; !ok {
			t.Fatalf("fallback table missing crypto symbol %s", symbol)
		}
	}
}
