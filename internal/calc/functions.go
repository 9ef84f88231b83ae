package calc

import (
	"math"
	"sort"
)

// unaryFuncs are the single-argument math functions. Names are matched
// case-insensitively; log is base 10 and ln is natural.
var unaryFuncs = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"log":   math.Log10,
	"log10": math.Log10,
	"ln":    math.Log,
	"exp":   math.Exp,
	"ceil":  math.Ceil,
	"floor": math.Floor,
	"round": math.Round,
	"abs":   math.Abs,
}

type aggregateFunc func([]float64) float64

var aggregates = map[string]aggregateFunc{
	"sum":     sum,
	"avg":     average,
	"average": average,
	"min":     minimum,
	"max":     maximum,
	"count":   func(v []float64) float64 { return float64(len(v)) },
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func minimum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Min(m, v)
	}
	return m
}

func maximum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		m = math.Max(m, v)
	}
	return m
}

// FunctionNames lists every callable name, aggregates included, sorted.
func FunctionNames() []string {
	names := make([]string, 0, len(unaryFuncs)+len(aggregates))
	for name := range aggregates {
		names = append(names, name)
	}
	for name := range unaryFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
