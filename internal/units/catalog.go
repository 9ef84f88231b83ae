// Package units converts "value unit to unit" lines between units of the
// same category (length, mass, temperature, storage, volume, area, speed,
// time).
package units

import (
	"sort"
	"strings"
	"sync"
)

// Category names.
const (
	Length      = "length"
	Mass        = "mass"
	Temperature = "temperature"
	Storage     = "storage"
	Volume      = "volume"
	Area        = "area"
	Speed       = "speed"
	Time        = "time"
)

// Unit is one entry of the catalog. Linear units convert through the
// category's base unit with ToBase/FromBase; offset units (temperature)
// convert through Kelvin instead.
type Unit struct {
	Canonical string
	Category  string
	ToBase    float64
	FromBase  float64
	IsOffset  bool
	Offset    float64
}

type unitSpec struct {
	aliases   []string
	canonical string
	toBase    float64
	fromBase  float64
}

// linear builds a spec whose fromBase is the reciprocal of toBase.
func linear(canonical string, toBase float64, aliases ...string) unitSpec {
	return unitSpec{aliases: aliases, canonical: canonical, toBase: toBase, fromBase: 1 / toBase}
}

// rounded keeps a published, rounded reciprocal instead of computing one.
func rounded(canonical string, toBase, fromBase float64, aliases ...string) unitSpec {
	return unitSpec{aliases: aliases, canonical: canonical, toBase: toBase, fromBase: fromBase}
}

var catalogSpecs = map[string][]unitSpec{
	Length: {
		rounded("millimeter", 0.001, 1000, "mm", "millimeter", "millimeters"),
		rounded("centimeter", 0.01, 100, "cm", "centimeter", "centimeters"),
		rounded("meter", 1, 1, "m", "meter", "meters"),
		rounded("kilometer", 1000, 0.001, "km", "kilometer", "kilometers"),
		rounded("inch", 0.0254, 39.3701, "inch", "inches", "in"),
		rounded("foot", 0.3048, 3.28084, "foot", "feet", "ft"),
		rounded("yard", 0.9144, 1.09361, "yard", "yards", "yd"),
		rounded("mile", 1609.34, 0.000621371, "mile", "miles", "mi"),
		rounded("nautical mile", 1852, 0.000539957, "nm", "nauticalmile"),
	},
	Mass: {
		rounded("milligram", 0.000001, 1000000, "mg", "milligram", "milligrams"),
		rounded("gram", 0.001, 1000, "g", "gram", "grams"),
		rounded("kilogram", 1, 1, "kg", "kilogram", "kilograms"),
		rounded("metric ton", 1000, 0.001, "ton", "tons", "tonne"),
		rounded("ounce", 0.0283495, 35.274, "oz", "ounce", "ounces"),
		rounded("pound", 0.453592, 2.20462, "lb", "lbs", "pound", "pounds"),
		rounded("stone", 6.35029, 0.157473, "stone", "stones"),
	},
	Storage: {
		linear("bit", 0.125, "bit", "bits"),
		linear("byte", 1, "byte", "bytes", "b"),
		linear("kilobyte", 1024, "kb", "kilobyte", "kilobytes"),
		linear("megabyte", 1048576, "mb", "megabyte", "megabytes"),
		linear("gigabyte", 1073741824, "gb", "gigabyte", "gigabytes"),
		linear("terabyte", 1099511627776, "tb", "terabyte", "terabytes"),
		linear("petabyte", 1125899906842624, "pb", "petabyte", "petabytes"),
	},
	Volume: {
		rounded("milliliter", 0.001, 1000, "ml", "milliliter", "milliliters"),
		rounded("liter", 1, 1, "l", "liter", "liters", "litre", "litres"),
		rounded("gallon", 3.78541, 0.264172, "gal", "gallon", "gallons"),
		rounded("cup", 0.236588, 4.22675, "cup", "cups"),
		rounded("pint", 0.473176, 2.11338, "pint", "pints", "pt"),
		rounded("fluid ounce", 0.0295735, 33.814, "floz", "fl oz"),
	},
	Area: {
		rounded("square meter", 1, 1, "sqm", "m2", "m²"),
		rounded("square kilometer", 1000000, 0.000001, "sqkm", "km2", "km²"),
		rounded("square foot", 0.092903, 10.7639, "sqft", "ft2", "ft²"),
		rounded("acre", 4046.86, 0.000247105, "acre", "acres"),
		rounded("hectare", 10000, 0.0001, "hectare", "hectares", "ha"),
	},
	Speed: {
		rounded("meters per second", 1, 1, "m/s", "mps"),
		rounded("kilometers per hour", 0.277778, 3.6, "km/h", "kmh", "kph"),
		rounded("miles per hour", 0.44704, 2.23694, "mph"),
		rounded("knot", 0.514444, 1.94384, "knot", "knots"),
		rounded("mach", 343, 0.00291545, "mach"),
	},
	Time: {
		linear("millisecond", 0.001, "ms", "millisecond", "milliseconds"),
		linear("second", 1, "s", "sec", "second", "seconds"),
		linear("minute", 60, "min", "minute", "minutes"),
		linear("hour", 3600, "hour", "hours", "hr"),
		linear("day", 86400, "day", "days"),
		linear("week", 604800, "week", "weeks"),
		linear("month", 2629746, "month", "months"),
		linear("year", 31556952, "year", "years", "yr"),
	},
}

// Temperature units convert through Kelvin. Offset is the additive term of
// each scale: 273.15 for Celsius, 32 for Fahrenheit.
var temperatureSpecs = []struct {
	canonical string
	offset    float64
	aliases   []string
}{
	{canonical: "celsius", offset: 273.15, aliases: []string{"c", "celsius", "°c"}},
	{canonical: "fahrenheit", offset: 32, aliases: []string{"f", "fahrenheit", "°f"}},
	{canonical: "kelvin", offset: 0, aliases: []string{"k", "kelvin"}},
}

// Catalog is the immutable unit table with a case-insensitive alias index.
type Catalog struct {
	byCategory map[string]map[string]Unit
	index      map[string]string
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the built-in catalog, built on first use.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog = buildCatalog()
	})
	return defaultCatalog
}

func buildCatalog() *Catalog {
	c := &Catalog{
		byCategory: make(map[string]map[string]Unit),
		index:      make(map[string]string),
	}
	for category, specs := range catalogSpecs {
		for _, spec := range specs {
			u := Unit{Canonical: spec.canonical, Category: category, ToBase: spec.toBase, FromBase: spec.fromBase}
			for _, alias := range spec.aliases {
				c.add(alias, u)
			}
		}
	}
	for _, spec := range temperatureSpecs {
		u := Unit{Canonical: spec.canonical, Category: Temperature, ToBase: 1, FromBase: 1, IsOffset: true, Offset: spec.offset}
		for _, alias := range spec.aliases {
			c.add(alias, u)
		}
	}
	return c
}

func (c *Catalog) add(alias string, u Unit) {
	key := strings.ToLower(alias)
	if c.byCategory[u.Category] == nil {
		c.byCategory[u.Category] = make(map[string]Unit)
	}
	c.byCategory[u.Category][key] = u
	c.index[key] = u.Category
}

// Lookup resolves an alias case-insensitively.
func (c *Catalog) Lookup(alias string) (Unit, bool) {
	key := strings.ToLower(strings.TrimSpace(alias))
	category, ok := c.index[key]
	if !ok {
		return Unit{}, false
	}
	return c.byCategory[category][key], true
}

// Categories returns the category names in sorted order.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.byCategory))
	for name := range c.byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnitsInCategory returns the sorted aliases of a category. The name is
// matched case-insensitively; an unknown category yields nil.
func (c *Catalog) UnitsInCategory(name string) []string {
	units, ok := c.byCategory[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil
	}
	aliases := make([]string, 0, len(units))
	for alias := range units {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	return aliases
}
