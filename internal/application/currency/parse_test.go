package currency

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/notecalc/internal/domain"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name string
		expr string
		base string
		want domain.ConversionRequest
	}{
		{name: "to keyword", expr: "100 USD to EUR", base: "USD", want: domain.ConversionRequest{Amount: 100, From: "USD", To: "EUR"}},
		{name: "lowercase codes", expr: "50 gbp to jpy", base: "USD", want: domain.ConversionRequest{Amount: 50, From: "GBP", To: "JPY"}},
		{name: "arrow", expr: "10 eur -> try", base: "USD", want: domain.ConversionRequest{Amount: 10, From: "EUR", To: "TRY"}},
		{name: "fat arrow", expr: "10eur=>usd", base: "USD", want: domain.ConversionRequest{Amount: 10, From: "EUR", To: "USD"}},
		{name: "greater than", expr: "1 btc > usd", base: "USD", want: domain.ConversionRequest{Amount: 1, From: "BTC", To: "USD"}},
		{name: "no separator", expr: "25 CHF CAD", base: "USD", want: domain.ConversionRequest{Amount: 25, From: "CHF", To: "CAD"}},
		{name: "comma decimal", expr: "12,5 EUR to USD", base: "USD", want: domain.ConversionRequest{Amount: 12.5, From: "EUR", To: "USD"}},
		{name: "five letter code", expr: "3 MATIC to EUR", base: "USD", want: domain.ConversionRequest{Amount: 3, From: "MATIC", To: "EUR"}},
		{name: "short form uses base", expr: "100 EUR", base: "try", want: domain.ConversionRequest{Amount: 100, From: "EUR", To: "TRY"}},
		{name: "short form five letters", expr: "2 usdt", base: "EUR", want: domain.ConversionRequest{Amount: 2, From: "USDT", To: "EUR"}},
		{name: "prefix symbol", expr: "$100 to EUR", base: "USD", want: domain.ConversionRequest{Amount: 100, From: "USD", To: "EUR"}},
		{name: "suffix symbols", expr: "100$ to €", base: "USD", want: domain.ConversionRequest{Amount: 100, From: "USD", To: "EUR"}},
		{name: "symbol short form", expr: "€50", base: "USD", want: domain.ConversionRequest{Amount: 50, From: "EUR", To: "USD"}},
		{name: "crypto symbol", expr: "₿1 to $", base: "EUR", want: domain.ConversionRequest{Amount: 1, From: "BTC", To: "USD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpression(tt.expr, tt.base)
			if err != nil {
				t.Fatalf("ParseExpression(%q) error = %v", tt.expr, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ParseExpression(%q) mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestParseExpression_NoMatch(t *testing.T) {
	tests := []struct {
		name string
		expr string
		base string
	}{
		{name: "short form same as base", expr: "100 USD", base: "USD"},
		{name: "short form same as base lowercase", expr: "100 usd", base: "usd"},
		{name: "arithmetic", expr: "2+2", base: "USD"},
		{name: "prose", expr: "hello world", base: "USD"},
		{name: "no amount", expr: "USD to EUR", base: "USD"},
		{name: "code too long", expr: "100 DOLLARS", base: "USD"},
		{name: "unit with keyword", expr: "5 feet in meters", base: "USD"},
		{name: "negative amount", expr: "-5 EUR to USD", base: "USD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpression(tt.expr, tt.base)
			if !errors.Is(err, domain.ErrNoMatch) {
				t.Fatalf("ParseExpression(%q) = %+v, %v; want no match", tt.expr, got, err)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		v    float64
		code string
		want string
	}{
		{v: 92, code: "EUR", want: "92.00 EUR"},
		{v: 1234.567, code: "TRY", want: "1234.57 TRY"},
		{v: 0, code: "USD", want: "0.00 USD"},
		{v: 0.0023, code: "BTC", want: "0.0023 BTC"},
		{v: -0.005, code: "ETH", want: "-0.005 ETH"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.v, tt.code); got != tt.want {
			t.Fatalf("FormatAmount(%v, %s) = %q, want %q", tt.v, tt.code, got, tt.want)
		}
	}
}
