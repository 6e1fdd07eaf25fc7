package model

import (
	"fmt"
	"time"
)

// BracketRange is the income range of a bracket, in cents, and its rate.
type BracketRange struct {
	Min  int64
	Max  int64
	Rate float64
}

// TaxConfiguration is the read-only rate table used by the tax calculator.
type TaxConfiguration struct {
	LastUpdated        time.Time
	IncomeBrackets     map[IncomeBracket]BracketRange
	StandardDeductions map[FilingStatus]int64
}

// Validate checks the table for values the calculator cannot use.
func (c TaxConfiguration) Validate() error {
	if len(c.IncomeBrackets) == 0 {
		return fmt.Errorf("at least one income bracket is required")
	}
	for bracket, r := range c.IncomeBrackets {
		if r.Rate < 0 || r.Rate > 1 {
			return fmt.Errorf("bracket %q: rate must be between 0.0 and 1.0, got %.2f", bracket, r.Rate)
		}
		if r.Min < 0 || r.Min > r.Max {
			return fmt.Errorf("bracket %q: invalid range %d-%d", bracket, r.Min, r.Max)
		}
	}
	for status, amount := range c.StandardDeductions {
		if amount < 0 {
			return fmt.Errorf("filing status %q: standard deduction cannot be negative", status)
		}
	}
	return nil
}
