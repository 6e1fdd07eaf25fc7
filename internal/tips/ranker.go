// Package tips ranks educational tax tips by their relevance to a receipt.
package tips

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/Veraticus/tally/internal/model"
)

// MaxSuggestions is the most tips Suggest returns for one receipt.
const MaxSuggestions = 2

// Score contributions.
const (
	categoryMatchBonus = 40.0
	generalBaseline    = 10.0
	amountMatchBonus   = 30.0
	vendorMatchBonus   = 20.0
	freshnessPenalty   = 20.0
	maxScore           = 100.0
)

// Suggestion is a tip chosen for a receipt.
type Suggestion struct {
	Reason         string
	Tip            model.EducationalTip
	RelevanceScore float64
}

// Ranker owns the tip catalog and its display counters.
// It is not safe for concurrent mutating calls.
type Ranker struct {
	intn    func(n int) int
	index   map[string]int
	entries []model.EducationalTip
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithRand sets the random source used by RandomGeneralTip.
func WithRand(r *rand.Rand) Option {
	return func(rk *Ranker) {
		if r != nil {
			rk.intn = r.IntN
		}
	}
}

// WithDisplayCounts restores display counters persisted from a previous ranker.
// Unknown IDs and negative counts are ignored.
func WithDisplayCounts(counts map[string]int) Option {
	return func(rk *Ranker) {
		for id, count := range counts {
			if i, ok := rk.index[id]; ok && count >= 0 {
				rk.entries[i].DisplayCount = count
			}
		}
	}
}

// NewRanker creates a ranker holding a fresh copy of the tip catalog.
func NewRanker(opts ...Option) *Ranker {
	r := &Ranker{
		intn:    rand.IntN,
		entries: defaultCatalog(),
	}
	r.index = make(map[string]int, len(r.entries))
	for i, tip := range r.entries {
		r.index[tip.ID] = i
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Suggest returns up to MaxSuggestions tips that are relevant to receipt and
// still under their display cap, most relevant first.
func (r *Ranker) Suggest(receipt model.Receipt) []Suggestion {
	var suggestions []Suggestion
	for _, tip := range r.entries {
		if tip.Exhausted() {
			continue
		}

		m := matchTip(tip, receipt)
		score := relevance(tip, m)
		if score <= 0 {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			Tip:            cloneTip(tip),
			RelevanceScore: score,
			Reason:         m.reason(receipt),
		})
	}

	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		if a.RelevanceScore != b.RelevanceScore {
			if a.RelevanceScore > b.RelevanceScore {
				return -1
			}
			return 1
		}
		return b.Tip.Priority - a.Tip.Priority
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

type match struct {
	category bool
	amount   bool
	vendor   bool
}

func matchTip(tip model.EducationalTip, receipt model.Receipt) match {
	var m match
	cond := tip.Triggers

	if receipt.HasCategory() && slices.Contains(cond.Categories, receipt.Category) {
		m.category = true
	}

	if cond.HasAmountRange() {
		lo, hi := int64(0), int64(-1)
		if cond.AmountMin != nil {
			lo = *cond.AmountMin
		}
		if cond.AmountMax != nil {
			hi = *cond.AmountMax
		}
		m.amount = receipt.TotalAmount >= lo && (hi < 0 || receipt.TotalAmount <= hi)
	}

	if receipt.HasVendor() && len(cond.VendorTypes) > 0 {
		vendor := strings.ToLower(receipt.VendorName)
		m.vendor = slices.ContainsFunc(cond.VendorTypes, func(vt string) bool {
			return strings.Contains(vendor, strings.ToLower(vt))
		})
	}

	return m
}

// relevance scores a tip from its priority and matched conditions, decayed by
// how often it has already been shown, clamped to [0, 100].
func relevance(tip model.EducationalTip, m match) float64 {
	score := float64(tip.Priority)

	if m.category {
		score += categoryMatchBonus
	} else if tip.Category == model.TipGeneral {
		score += generalBaseline
	}
	if m.amount {
		score += amountMatchBonus
	}
	if m.vendor {
		score += vendorMatchBonus
	}

	score -= float64(tip.DisplayCount) / float64(tip.MaxDisplays) * freshnessPenalty

	return max(0, min(maxScore, score))
}

func (m match) reason(receipt model.Receipt) string {
	switch {
	case m.category:
		return fmt.Sprintf("Relevant to %s expenses", receipt.Category)
	case m.amount:
		return "Relevant for this expense amount"
	default:
		return "General tax deduction tip"
	}
}

// MarkDisplayed records that a tip was shown. Unknown IDs are ignored.
func (r *Ranker) MarkDisplayed(tipID string) {
	i, ok := r.index[tipID]
	if !ok {
		slog.Debug("Ignoring display of unknown tip", "tip_id", tipID)
		return
	}
	r.entries[i].DisplayCount++
}

// RandomGeneralTip picks uniformly among general tips under their display cap.
func (r *Ranker) RandomGeneralTip() (model.EducationalTip, bool) {
	var available []model.EducationalTip
	for _, tip := range r.entries {
		if tip.Category == model.TipGeneral && !tip.Exhausted() {
			available = append(available, tip)
		}
	}
	if len(available) == 0 {
		return model.EducationalTip{}, false
	}
	return cloneTip(available[r.intn(len(available))]), true
}

// Tips returns a copy of the catalog in display order.
func (r *Ranker) Tips() []model.EducationalTip {
	out := make([]model.EducationalTip, len(r.entries))
	for i, tip := range r.entries {
		out[i] = cloneTip(tip)
	}
	return out
}

// TipsByCategory returns copies of the tips in category.
func (r *Ranker) TipsByCategory(category model.TipCategory) []model.EducationalTip {
	var out []model.EducationalTip
	for _, tip := range r.entries {
		if tip.Category == category {
			out = append(out, cloneTip(tip))
		}
	}
	return out
}

// DisplayCounts returns the non-zero display counters keyed by tip ID.
func (r *Ranker) DisplayCounts() map[string]int {
	counts := make(map[string]int)
	for _, tip := range r.entries {
		if tip.DisplayCount > 0 {
			counts[tip.ID] = tip.DisplayCount
		}
	}
	return counts
}

func cloneTip(tip model.EducationalTip) model.EducationalTip {
	if tip.Triggers.AmountMin != nil {
		v := *tip.Triggers.AmountMin
		tip.Triggers.AmountMin = &v
	}
	if tip.Triggers.AmountMax != nil {
		v := *tip.Triggers.AmountMax
		tip.Triggers.AmountMax = &v
	}
	tip.Triggers.VendorTypes = slices.Clone(tip.Triggers.VendorTypes)
	tip.Triggers.Categories = slices.Clone(tip.Triggers.Categories)
	return tip
}
