package domain

// ConversionRequest is the result of parsing a unit or currency line.
// It is created per parse call and never stored.
type ConversionRequest struct {
	Amount float64
	From   string
	To     string
}

// CurrencyConversion is a parsed and converted currency line.
type CurrencyConversion struct {
	Amount    float64
	From      string
	To        string
	Converted float64
}

// LineKind tells which classifier recognized a line.
type LineKind string

const (
	LineNone       LineKind = ""
	LineCurrency   LineKind = "currency"
	LineUnit       LineKind = "unit"
	LineMath       LineKind = "math"
	LineAssignment LineKind = "assignment"
)

// Annotation is the outcome of classifying a single line.
type Annotation struct {
	Kind   LineKind
	Input  string
	Suffix string
	Value  float64
}

// Annotated reports whether a suffix should be appended to the line.
func (a Annotation) Annotated() bool {
	return a.Suffix != ""
}
