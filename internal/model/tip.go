package model

// TipCategory groups educational tips by expense type.
type TipCategory string

const (
	// TipBusinessMeal covers meals with clients or colleagues.
	TipBusinessMeal TipCategory = "business_meal"
	// TipHomeOffice covers home office costs.
	TipHomeOffice TipCategory = "home_office"
	// TipEquipment covers equipment purchases.
	TipEquipment TipCategory = "equipment"
	// TipGeneral covers tips relevant to any expense.
	TipGeneral TipCategory = "general"
)

// TriggerConditions describe when a tip applies to a receipt.
// Nil amount bounds mean no bound on that side.
type TriggerConditions struct {
	AmountMin   *int64
	AmountMax   *int64
	VendorTypes []string
	Categories  []string
}

// HasAmountRange reports whether either amount bound is declared.
func (c TriggerConditions) HasAmountRange() bool {
	return c.AmountMin != nil || c.AmountMax != nil
}

// EducationalTip is a short piece of tax education shown after scans.
type EducationalTip struct {
	ID           string
	Title        string
	Content      string
	Category     TipCategory
	Triggers     TriggerConditions
	DisplayCount int
	MaxDisplays  int
	Priority     int
}

// Exhausted reports whether the tip has reached its display cap.
func (t EducationalTip) Exhausted() bool {
	return t.DisplayCount >= t.MaxDisplays
}
