package tax

import (
	"math"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// DefaultConfiguration returns the built-in rate table. Bracket bounds and
// deductions are in cents.
func DefaultConfiguration(now time.Time) model.TaxConfiguration {
	return model.TaxConfiguration{
		IncomeBrackets: map[model.IncomeBracket]model.BracketRange{
			model.BracketLow:    {Min: 0, Max: 5_000_000, Rate: 0.12},
			model.BracketMedium: {Min: 5_000_100, Max: 10_000_000, Rate: 0.22},
			model.BracketHigh:   {Min: 10_000_100, Max: math.MaxInt64, Rate: 0.32},
		},
		StandardDeductions: map[model.FilingStatus]int64{
			model.FilingSingle:  1_375_000,
			model.FilingMarried: 2_750_000,
		},
		LastUpdated: now,
	}
}
