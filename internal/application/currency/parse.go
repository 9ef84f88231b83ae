package currency

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/notecalc/internal/domain"
)

var symbolCodes = []struct {
	symbol string
	code   string
}{
	{symbol: "$", code: "USD"},
	{symbol: "€", code: "EUR"},
	{symbol: "₺", code: "TRY"},
	{symbol: "£", code: "GBP"},
	{symbol: "¥", code: "JPY"},
	{symbol: "₽", code: "RUB"},
	{symbol: "₿", code: "BTC"},
	{symbol: "Ξ", code: "ETH"},
}

var (
	// "$100" is rewritten to "100 USD" before the code patterns run.
	prefixSymbolPattern = regexp.MustCompile(`([$€₺£¥₽₿Ξ])\s*(\d+(?:[.,]\d+)?)`)
	fullPattern         = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*([a-z]{2,5})(?:\s*(?:to|->|=>|>)\s*|\s+)([a-z]{2,5})$`)
	shortPattern        = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*([a-z]{2,5})$`)
)

// ParseExpression recognises "<amount> <CODE> [to|->|=>|>] <CODE>" and the
// short form "<amount> <CODE>", whose target is base. Known currency symbols
// are substituted by their codes first. The short form does not match when
// source and target are the same code.
func ParseExpression(expr, base string) (domain.ConversionRequest, error) {
	line := substituteSymbols(strings.TrimSpace(expr))

	if m := fullPattern.FindStringSubmatch(line); m != nil {
		amount, err := parseAmount(m[1])
		if err != nil {
			return domain.ConversionRequest{}, err
		}
		return domain.ConversionRequest{Amount: amount, From: strings.ToUpper(m[2]), To: strings.ToUpper(m[3])}, nil
	}

	if m := shortPattern.FindStringSubmatch(line); m != nil {
		from := strings.ToUpper(m[2])
		to := strings.ToUpper(strings.TrimSpace(base))
		if to == "" || from == to {
			return domain.ConversionRequest{}, domain.ErrNoMatch
		}
		amount, err := parseAmount(m[1])
		if err != nil {
			return domain.ConversionRequest{}, err
		}
		return domain.ConversionRequest{Amount: amount, From: from, To: to}, nil
	}

	return domain.ConversionRequest{}, domain.ErrNoMatch
}

func substituteSymbols(line string) string {
	line = prefixSymbolPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := prefixSymbolPattern.FindStringSubmatch(match)
		return m[2] + " " + codeForSymbol(m[1])
	})
	for _, sc := range symbolCodes {
		line = strings.ReplaceAll(line, sc.symbol, " "+sc.code+" ")
	}
	return strings.Join(strings.Fields(line), " ")
}

func codeForSymbol(symbol string) string {
	for _, sc := range symbolCodes {
		if sc.symbol == symbol {
			return sc.code
		}
	}
	return symbol
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q", domain.ErrNoMatch, raw)
	}
	return v, nil
}

// FormatAmount renders a converted amount as "92.00 EUR". Amounts below one
// cent keep four significant digits so crypto values stay readable.
func FormatAmount(v float64, code string) string {
	if abs := math.Abs(v); abs > 0 && abs < 0.01 {
		return strconv.FormatFloat(v, 'g', 4, 64) + " " + code
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + " " + code
}
