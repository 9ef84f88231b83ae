package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/doeshing/notecalc/internal/domain"
)

var conversionPattern = regexp.MustCompile(`(?i)^\s*(-?[\d.,]+)\s*([a-zA-Z°²/0-9]+(?:\s+[a-zA-Z°²/0-9]+)?)\s+(?:to|in|as)\s+([a-zA-Z°²/0-9]+(?:\s+[a-zA-Z°²/0-9]+)?)\s*$`)

const kelvinOffset = 273.15

// Resolver parses and performs unit conversions against a Catalog.
type Resolver struct {
	catalog *Catalog
}

// NewResolver returns a resolver over catalog, or the default catalog when
// catalog is nil.
func NewResolver(catalog *Catalog) *Resolver {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Resolver{catalog: catalog}
}

// Parse matches "<amount> <unit> (to|in|as) <unit>". Both units must exist
// and belong to the same category.
func (r *Resolver) Parse(line string) (domain.ConversionRequest, error) {
	m := conversionPattern.FindStringSubmatch(line)
	if m == nil {
		return domain.ConversionRequest{}, domain.ErrNoMatch
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return domain.ConversionRequest{}, fmt.Errorf("%w: amount %q", domain.ErrNoMatch, m[1])
	}
	req := domain.ConversionRequest{
		Amount: amount,
		From:   strings.ToLower(m[2]),
		To:     strings.ToLower(m[3]),
	}
	from, ok := r.catalog.Lookup(req.From)
	if !ok {
		return domain.ConversionRequest{}, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, m[2])
	}
	to, ok := r.catalog.Lookup(req.To)
	if !ok {
		return domain.ConversionRequest{}, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, m[3])
	}
	if from.Category != to.Category {
		return domain.ConversionRequest{}, fmt.Errorf("%w: %s is %s, %s is %s", domain.ErrCrossCategory, req.From, from.Category, req.To, to.Category)
	}
	return req, nil
}

// IsConversion reports whether line is a valid unit conversion.
func (r *Resolver) IsConversion(line string) bool {
	_, err := r.Parse(line)
	return err == nil
}

// Convert parses line and returns the formatted result followed by the
// target unit's canonical name, e.g. "6.2137 mile".
func (r *Resolver) Convert(line string) (string, error) {
	req, err := r.Parse(line)
	if err != nil {
		return "", err
	}
	value, unit, err := r.ConvertValue(req.Amount, req.From, req.To)
	if err != nil {
		return "", err
	}
	return FormatNumber(value) + " " + unit.Canonical, nil
}

// ConvertValue converts amount between two aliases and returns the target
// unit alongside the value.
func (r *Resolver) ConvertValue(amount float64, fromAlias, toAlias string) (float64, Unit, error) {
	from, ok := r.catalog.Lookup(fromAlias)
	if !ok {
		return 0, Unit{}, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, fromAlias)
	}
	to, ok := r.catalog.Lookup(toAlias)
	if !ok {
		return 0, Unit{}, fmt.Errorf("%w: %q", domain.ErrUnknownUnit, toAlias)
	}
	if from.Category != to.Category {
		return 0, Unit{}, fmt.Errorf("%w: %s to %s", domain.ErrCrossCategory, from.Category, to.Category)
	}
	if from.Category == Temperature {
		return fromKelvin(to, toKelvin(from, amount)), to, nil
	}
	return amount * from.ToBase * to.FromBase, to, nil
}

// Categories returns the catalog's category names.
func (r *Resolver) Categories() []string {
	return r.catalog.Categories()
}

// UnitsInCategory returns the aliases recognised for a category.
func (r *Resolver) UnitsInCategory(name string) []string {
	return r.catalog.UnitsInCategory(name)
}

func toKelvin(u Unit, v float64) float64 {
	switch u.Canonical {
	case "celsius":
		return v + u.Offset
	case "fahrenheit":
		return (v-u.Offset)*5/9 + kelvinOffset
	default:
		return v
	}
}

func fromKelvin(u Unit, k float64) float64 {
	switch u.Canonical {
	case "celsius":
		return k - u.Offset
	case "fahrenheit":
		return (k-kelvinOffset)*9/5 + u.Offset
	default:
		return k
	}
}
