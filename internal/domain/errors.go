package domain

import "errors"

// Evaluation and conversion failures. Callers match with errors.Is.
var (
	// ErrParse means the input is not this kind of expression.
	ErrParse = errors.New("parse failure")
	// ErrUnknownIdentifier is an undefined variable or function.
	ErrUnknownIdentifier = errors.New("unknown identifier")
	// ErrDivisionByZero covers both '/' and '%'.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDomain is a math function evaluated outside its domain, or any
	// NaN or infinite result.
	ErrDomain = errors.New("argument out of domain")

	ErrUnknownUnit     = errors.New("unknown unit")
	ErrCrossCategory   = errors.New("units belong to different categories")
	ErrUnknownCategory = errors.New("unknown unit category")
	ErrUnknownCurrency = errors.New("unknown currency")
	ErrNoMatch         = errors.New("no match")
)

// Rate refresh failures.
var (
	ErrNetwork         = errors.New("network error")
	ErrInvalidResponse = errors.New("invalid provider response")
	ErrMissingAPIKey   = errors.New("provider requires an api key")
	ErrUnknownProvider = errors.New("unknown rate provider")
)
