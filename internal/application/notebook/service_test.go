package notebook

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/notecalc/internal/application/currency"
	"github.com/doeshing/notecalc/internal/domain"
	"github.com/doeshing/notecalc/internal/pkg/logger"
)

type memoryCache struct {
	snapshot *domain.RateSnapshot
}

func (c *memoryCache) Load() (domain.RateSnapshot, error) {
	if c.snapshot == nil {
		return domain.RateSnapshot{}, os.ErrNotExist
	}
	return *c.snapshot, nil
}

func (c *memoryCache) Save(s domain.RateSnapshot) error {
	c.snapshot = &s
	return nil
}

func (c *memoryCache) Path() string { return "memory" }

type memoryHistory struct {
	records []domain.HistoryRecord
	saveErr error
}

func (h *memoryHistory) Save(rec domain.HistoryRecord) error {
	if h.saveErr != nil {
		return h.saveErr
	}
	h.records = append(h.records, rec)
	return nil
}

func (h *memoryHistory) Records(int, string) ([]domain.HistoryRecord, error) { return h.records, nil }
func (h *memoryHistory) Clear() error                                        { h.records = nil; return nil }
func (h *memoryHistory) ExportJSON(string) error                             { return nil }
func (h *memoryHistory) Path() string                                        { return "memory" }

func newTestNotebook() *Service {
	cache := &memoryCache{snapshot: &domain.RateSnapshot{Base: "USD", Rates: map[string]float64{
		"USD": 1, "EUR": 0.92, "TRY": 35,
	}}}
	rates := &currency.Service{Store: currency.NewRateStore(cache, logger.NewNop()), Logger: logger.NewNop()}
	return NewService(rates, nil, "USD")
}

func TestService_AnnotateLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantKind   domain.LineKind
		wantSuffix string
	}{
		{name: "math", line: "2 + 2", wantKind: domain.LineMath, wantSuffix: " = 4"},
		{name: "fractional math", line: "10 / 4", wantKind: domain.LineMath, wantSuffix: " = 2.5000"},
		{name: "trailing equals", line: "3 * 3 =", wantKind: domain.LineMath, wantSuffix: " 9"},
		{name: "currency", line: "100 USD to EUR", wantKind: domain.LineCurrency, wantSuffix: " = 92.00 EUR"},
		{name: "currency short form", line: "92 EUR", wantKind: domain.LineCurrency, wantSuffix: " = 100.00 USD"},
		{name: "symbol prefix", line: "$10 to TRY", wantKind: domain.LineCurrency, wantSuffix: " = 350.00 TRY"},
		{name: "unit", line: "5 km to mi", wantKind: domain.LineUnit, wantSuffix: " = 3.1069 mile"},
		{name: "temperature", line: "100 c to f", wantKind: domain.LineUnit, wantSuffix: " = 212 fahrenheit"},
		{name: "assignment has no suffix", line: "rent = 1200", wantKind: domain.LineAssignment},
		{name: "empty", line: "   "},
		{name: "separator", line: "---"},
		{name: "already annotated", line: "2 + 2 = 4"},
		{name: "prose", line: "buy milk"},
		{name: "non-finite power", line: "(-8)^0.5"},
		{name: "zero to negative power", line: "0^-1"},
		{name: "log of zero", line: "ln(0)"},
		{name: "path", line: "/usr/bin/env"},
		{name: "cross category unit", line: "5 km to kg"},
		{name: "division by zero", line: "1 / 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newTestNotebook().AnnotateLine(tt.line)
			if got.Kind != tt.wantKind || got.Suffix != tt.wantSuffix {
				t.Fatalf("AnnotateLine(%q) = kind %q suffix %q, want kind %q suffix %q",
					tt.line, got.Kind, got.Suffix, tt.wantKind, tt.wantSuffix)
			}
		})
	}
}

func TestService_AnnotateLineUsesSession(t *testing.T) {
	nb := newTestNotebook()
	nb.AnnotateLine("price: 20")
	nb.AnnotateLine("qty = 3")

	if got := nb.AnnotateLine("price * qty").Suffix; got != " = 60" {
		t.Fatalf("price * qty suffix = %q", got)
	}
	if got := nb.AnnotateLine("sum").Suffix; got != " = 83" {
		t.Fatalf("sum suffix = %q", got)
	}

	want := []Variable{{Name: "price", Value: 20}, {Name: "qty", Value: 3}}
	if diff := cmp.Diff(want, nb.Variables()); diff != "" {
		t.Fatalf("Variables() mismatch (-want +got):\n%s", diff)
	}
}

func TestService_AnnotateLineWithoutCurrency(t *testing.T) {
	nb := NewService(nil, nil, "")
	if got := nb.AnnotateLine("100 USD to EUR"); got.Annotated() {
		t.Fatalf("currency line annotated without a rate service: %+v", got)
	}
	if got := nb.AnnotateLine("1 kg to g").Suffix; got != " = 1000 gram" {
		t.Fatalf("unit suffix = %q", got)
	}
}

func TestService_AnnotateNote(t *testing.T) {
	nb := newTestNotebook()
	nb.AnnotateLine("leftover = 99")

	note := strings.Join([]string{
		"groceries",
		"a = 12",
		"a * 2",
		"",
		"---",
		"30",
		"sum",
		"100 USD to EUR",
		"leftover",
	}, "\n")

	want := strings.Join([]string{
		"groceries",
		"a = 12",
		"a * 2 = 24",
		"",
		"---",
		"30 = 30",
		"sum = 66",
		"100 USD to EUR = 92.00 EUR",
		"leftover",
	}, "\n")

	if diff := cmp.Diff(want, nb.AnnotateNote(note)); diff != "" {
		t.Fatalf("AnnotateNote() mismatch (-want +got):\n%s", diff)
	}
}

func TestService_AnnotateNoteSkipsNonFinite(t *testing.T) {
	nb := newTestNotebook()
	got := nb.AnnotateNote("(-8)^0.5\n0^-1\n5\nsum")
	if want := "(-8)^0.5\n0^-1\n5 = 5\nsum = 5"; got != want {
		t.Fatalf("AnnotateNote() = %q, want %q", got, want)
	}
}

func TestService_RecordsHistory(t *testing.T) {
	history := &memoryHistory{}
	nb := newTestNotebook()
	nb.History = history
	nb.SessionID = "session-1"
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	nb.Now = func() time.Time { return fixed }

	nb.AnnotateLine("x = 2")
	nb.AnnotateLine("x + 1")
	nb.AnnotateLine("7 =")
	nb.AnnotateLine("not a calculation")

	want := []domain.HistoryRecord{
		{Timestamp: fixed, SessionID: "session-1", Kind: domain.LineMath, Input: "x + 1", Output: "3", Value: 3},
		{Timestamp: fixed, SessionID: "session-1", Kind: domain.LineMath, Input: "7 =", Output: "7", Value: 7},
	}
	if diff := cmp.Diff(want, history.records); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	history.saveErr = errors.New("disk full")
	if got := nb.AnnotateLine("1 + 1"); got.Suffix != " = 2" {
		t.Fatalf("save failure changed annotation: %+v", got)
	}
}

func TestFormatResult(t *testing.T) {
	tests := map[float64]string{
		4:       "4",
		-12:     "-12",
		2.5:     "2.5000",
		1.0 / 3: "0.3333",
		1e20:    "100000000000000000000.0000",
	}
	for in, want := range tests {
		if got := FormatResult(in); got != want {
			t.Errorf("FormatResult(%v) = %q, want %q", in, got, want)
		}
	}
}
