package pnl

import "fmt"

// InvalidInputError rejects a request field before any arithmetic runs.
// It names the field and the violated constraint so the caller can render
// a precise user message. Never retried.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// InvalidLossError rejects a loss percentage of 100 or more, which would
// mean no deliverable tonnage at all (division by zero or negative).
type InvalidLossError struct {
	Percent float64
}

func (e *InvalidLossError) Error() string {
	return fmt.Sprintf("invalid loss percent %v: must be below 100", e.Percent)
}

// InvalidRateError reports a missing or non-positive exchange rate in a
// snapshot.
type InvalidRateError struct {
	From    Currency
	To      Currency
	Missing Currency
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("invalid rate %v->%v: no usable quote for %v", e.From, e.To, e.Missing)
}

// RateFetchError reports an unreachable or malformed live rate source.
// Recoverable: the fallback decorator degrades to configured rates instead
// of failing the calculation.
type RateFetchError struct {
	URL string
	Err error
}

func (e *RateFetchError) Error() string {
	return fmt.Sprintf("fetching rates from %s: %v", e.URL, e.Err)
}

func (e *RateFetchError) Unwrap() error { return e.Err }
