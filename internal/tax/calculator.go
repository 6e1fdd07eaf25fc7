// Package tax estimates the tax saving of deductible expenses.
//
// Estimates are conservative: savings are always floored to whole cents.
package tax

import (
	"fmt"
	"math"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
)

// FullDeduction is the deduction percentage of a fully deductible expense.
const FullDeduction = 1.0

// Expense amount limits for validation, in cents.
const (
	MinExpenseAmount   = 1
	SmallExpenseAmount = 100
	LargeExpenseAmount = 10_000_000
)

const (
	// Disclaimer accompanies every estimate.
	Disclaimer = "Estimate only. Consult a tax professional for accurate advice."
	// QuarterlyDisclaimer replaces Disclaimer on quarterly estimates.
	QuarterlyDisclaimer = "Quarterly estimate. Actual quarterly tax impact may vary based on other income and deductions."
)

// Validation warnings.
const (
	WarningNonPositive = "Expense amount must be greater than $0.00"
	WarningLarge       = "Large expense detected. Ensure this is a legitimate business expense."
	WarningSmall       = "Small expense. Consider batching similar expenses for easier tracking."
)

var deductionRules = map[string]float64{
	"business_meal":         0.5,
	"entertainment":         0.0,
	"home_office":           1.0,
	"office_supplies":       1.0,
	"equipment":             1.0,
	"professional_services": 1.0,
	"travel":                1.0,
	"vehicle":               1.0,
	"general":               1.0,
}

// ConfigurationError reports a profile bracket missing from the rate table.
type ConfigurationError struct {
	Bracket model.IncomeBracket
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid income bracket: %q not in tax configuration", e.Bracket)
}

func (e *ConfigurationError) Unwrap() error {
	return common.ErrInvalidConfig
}

// Result is a savings estimate.
type Result struct {
	Disclaimer      string
	PotentialSaving int64
	EffectiveRate   float64
}

// Validation is the outcome of checking an expense amount. Warning is empty
// when there is nothing to tell the user.
type Validation struct {
	Warning string
	Valid   bool
}

// Calculator estimates savings from a fixed configuration.
type Calculator struct {
	config model.TaxConfiguration
}

// NewCalculator creates a calculator over cfg.
func NewCalculator(cfg model.TaxConfiguration) *Calculator {
	return &Calculator{config: cfg}
}

// CalculateSavings estimates the saving of deducting deductionPercentage of
// amountCents at the profile's bracket rate. The percentage is clamped to
// [0, 1] and negative amounts save nothing.
func (c *Calculator) CalculateSavings(amountCents int64, profile model.UserProfile, deductionPercentage float64) (Result, error) {
	bracket, ok := c.config.IncomeBrackets[profile.IncomeBracket]
	if !ok {
		return Result{}, &ConfigurationError{Bracket: profile.IncomeBracket}
	}

	pct := max(0, min(1, deductionPercentage))
	deductible := float64(amountCents) * pct
	saving := math.Floor(deductible * bracket.Rate)

	return Result{
		PotentialSaving: max(0, int64(saving)),
		EffectiveRate:   bracket.Rate,
		Disclaimer:      Disclaimer,
	}, nil
}

// CalculateAnnualSavings estimates the saving of a year's total deductions.
func (c *Calculator) CalculateAnnualSavings(totalCents int64, profile model.UserProfile) (Result, error) {
	return c.CalculateSavings(totalCents, profile, FullDeduction)
}

// CalculateQuarterlySavings estimates the saving of a quarter's deductions.
// The rate is the annual rate; only the disclaimer differs.
func (c *Calculator) CalculateQuarterlySavings(totalCents int64, profile model.UserProfile) (Result, error) {
	result, err := c.CalculateAnnualSavings(totalCents, profile)
	if err != nil {
		return Result{}, err
	}
	result.Disclaimer = QuarterlyDisclaimer
	return result, nil
}

// Rate returns the marginal rate configured for bracket.
func (c *Calculator) Rate(bracket model.IncomeBracket) (float64, bool) {
	r, ok := c.config.IncomeBrackets[bracket]
	return r.Rate, ok
}

// StandardDeduction returns the configured standard deduction for status.
func (c *Calculator) StandardDeduction(status model.FilingStatus) (int64, bool) {
	amount, ok := c.config.StandardDeductions[status]
	return amount, ok
}

// DeductionPercentage returns the deductible fraction of an expense category.
// Unknown categories are treated as fully deductible.
func DeductionPercentage(category string) float64 {
	if pct, ok := deductionRules[category]; ok {
		return pct
	}
	return FullDeduction
}

// ValidateExpenseAmount checks that an amount is usable and flags unusual ones.
func ValidateExpenseAmount(amountCents int64) Validation {
	switch {
	case amountCents < MinExpenseAmount:
		return Validation{Valid: false, Warning: WarningNonPositive}
	case amountCents > LargeExpenseAmount:
		return Validation{Valid: true, Warning: WarningLarge}
	case amountCents < SmallExpenseAmount:
		return Validation{Valid: true, Warning: WarningSmall}
	default:
		return Validation{Valid: true}
	}
}
