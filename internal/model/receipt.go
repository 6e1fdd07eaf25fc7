package model

import "time"

// Receipt is a scanned expense. Amounts are in cents.
type Receipt struct {
	CreatedAt          time.Time
	LastUpdated        time.Time
	ID                 string
	ImagePath          string // Opaque reference owned by the capture pipeline
	VendorName         string // Empty when OCR found no vendor
	Category           string // Empty when uncategorized
	Notes              string
	TotalAmount        int64
	PotentialTaxSaving int64
	Verified           bool
}

// HasVendor reports whether a vendor name was captured.
func (r Receipt) HasVendor() bool {
	return r.VendorName != ""
}

// HasCategory reports whether the receipt carries a category tag.
func (r Receipt) HasCategory() bool {
	return r.Category != ""
}
