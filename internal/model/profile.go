package model

import "time"

// IncomeBracket selects the marginal rate used for savings estimates.
type IncomeBracket string

const (
	// BracketLow covers incomes up to $50,000.
	BracketLow IncomeBracket = "low"
	// BracketMedium covers incomes from $50,001 to $100,000.
	BracketMedium IncomeBracket = "medium"
	// BracketHigh covers incomes above $100,000.
	BracketHigh IncomeBracket = "high"
)

// FilingStatus is the user's tax filing status.
type FilingStatus string

const (
	// FilingSingle is the single filing status.
	FilingSingle FilingStatus = "single"
	// FilingMarried is the married-filing-jointly status.
	FilingMarried FilingStatus = "married"
)

// IsValid reports whether b is one of the known brackets.
func (b IncomeBracket) IsValid() bool {
	switch b {
	case BracketLow, BracketMedium, BracketHigh:
		return true
	}
	return false
}

// IsValid reports whether s is one of the known filing statuses.
func (s FilingStatus) IsValid() bool {
	return s == FilingSingle || s == FilingMarried
}

// UserProfile holds the tax attributes needed to pick a rate.
type UserProfile struct {
	CreatedAt     time.Time
	LastUpdated   time.Time
	IncomeBracket IncomeBracket
	FilingStatus  FilingStatus
}
