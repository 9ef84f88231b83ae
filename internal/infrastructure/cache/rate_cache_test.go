package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/notecalc/internal/domain"
)

func TestFileRateCache_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "currency_rates.json")
	c := NewFileRateCacheAt(path)

	want := domain.RateSnapshot{
		Base:  "USD",
		Rates: map[string]float64{"USD": 1, "EUR": 0.92, "BTC": 0.000023, "JPY": 157},
	}
	if err := c.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}

	if _, ok := c.ModTime(); !ok {
		t.Fatal("ModTime() reported missing file after Save")
	}
}

func TestFileRateCache_LoadMissing(t *testing.T) {
	c := NewFileRateCacheAt(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := c.Load(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want not exist", err)
	}
}

func TestFileRateCache_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileRateCacheAt(path).Load(); err == nil {
		t.Fatal("Load() error = nil for corrupt file")
	}
}

func TestFileRateCache_SaveDefaultsBase(t *testing.T) {
	c := NewFileRateCacheAt(filepath.Join(t.TempDir(), "rates.json"))
	if err := c.Save(domain.RateSnapshot{Rates: map[string]float64{"USD": 1}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Base != "USD" {
		t.Fatalf("Base = %q, want USD", got.Base)
	}
}

func TestFileRateCache_Clear(t *testing.T) {
	c := NewFileRateCacheAt(filepath.Join(t.TempDir(), "rates.json"))
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() on missing file error = %v", err)
	}
	_ = c.Save(domain.RateSnapshot{Rates: map[string]float64{"USD": 1}})
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := c.ModTime(); ok {
		t.Fatal("cache file still present after Clear")
	}
}
