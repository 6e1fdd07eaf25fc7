package tips

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/tally/internal/model"
)

func rankerWith(tips ...model.EducationalTip) *Ranker {
	r := NewRanker()
	r.entries = tips
	r.index = make(map[string]int, len(tips))
	for i, tip := range tips {
		r.index[tip.ID] = i
	}
	return r
}

func suggestionIDs(suggestions []Suggestion) []string {
	ids := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		ids = append(ids, s.Tip.ID)
	}
	return ids
}

func TestRanker_SuggestBusinessMeal(t *testing.T) {
	ranker := NewRanker()
	receipt := model.Receipt{Category: "business_meal", TotalAmount: 5000, VendorName: "Test Vendor"}

	suggestions := ranker.Suggest(receipt)

	require.Len(t, suggestions, 2)
	assert.Equal(t, []string{"business-meal-basic", "business-meal-limits"}, suggestionIDs(suggestions))
	assert.Equal(t, 80.0, suggestions[0].RelevanceScore)
	assert.Equal(t, 78.0, suggestions[1].RelevanceScore)
	assert.Equal(t, "Relevant to business_meal expenses", suggestions[0].Reason)
	for _, s := range suggestions {
		assert.NotEqual(t, model.TipGeneral, s.Tip.Category)
	}
}

func TestRanker_SuggestScoring(t *testing.T) {
	tests := []struct {
		name       string
		receipt    model.Receipt
		wantIDs    []string
		wantScores []float64
		wantReason string
	}{
		{
			name:       "vendor and amount without category",
			receipt:    model.Receipt{TotalAmount: 5000, VendorName: "Joe's CAFE"},
			wantIDs:    []string{"business-meal-basic", "business-meal-limits"},
			wantScores: []float64{60, 38},
			wantReason: "Relevant for this expense amount",
		},
		{
			name:       "amount above range max",
			receipt:    model.Receipt{TotalAmount: 25000, VendorName: "Steakhouse Restaurant"},
			wantIDs:    []string{"travel-overnight", "professional-services"},
			wantScores: []float64{49, 47},
			wantReason: "Relevant for this expense amount",
		},
		{
			name:       "unknown category falls back to general tips",
			receipt:    model.Receipt{Category: "other", TotalAmount: 50},
			wantIDs:    []string{"travel-overnight", "general-documentation"},
			wantScores: []float64{19, 18},
			wantReason: "General tax deduction tip",
		},
		{
			name:       "home office category",
			receipt:    model.Receipt{Category: "home_office", TotalAmount: 8000, VendorName: "Electric Company"},
			wantIDs:    []string{"home-office-basics", "home-office-simplified"},
			wantScores: []float64{49, 47},
			wantReason: "Relevant to home_office expenses",
		},
		{
			name:       "large equipment",
			receipt:    model.Receipt{Category: "equipment", TotalAmount: 100000},
			wantIDs:    []string{"equipment-section179", "travel-overnight"},
			wantScores: []float64{80, 49},
			wantReason: "Relevant to equipment expenses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suggestions := NewRanker().Suggest(tt.receipt)
			assert.Equal(t, tt.wantIDs, suggestionIDs(suggestions))
			require.Len(t, suggestions, len(tt.wantScores))
			for i, want := range tt.wantScores {
				assert.InDelta(t, want, suggestions[i].RelevanceScore, 1e-9)
			}
			assert.Equal(t, tt.wantReason, suggestions[0].Reason)
		})
	}
}

func TestRanker_FreshnessPenalty(t *testing.T) {
	ranker := NewRanker()
	ranker.MarkDisplayed("business-meal-basic")

	suggestions := ranker.Suggest(model.Receipt{Category: "business_meal", TotalAmount: 5000})
	require.Len(t, suggestions, 2)

	// 80 - 1/3*20 drops below the untouched limits tip.
	assert.Equal(t, "business-meal-limits", suggestions[0].Tip.ID)
	assert.Equal(t, "business-meal-basic", suggestions[1].Tip.ID)
	assert.InDelta(t, 80.0-20.0/3.0, suggestions[1].RelevanceScore, 1e-9)
	assert.Equal(t, 1, suggestions[1].Tip.DisplayCount)
}

func TestRanker_ExcludesExhaustedTips(t *testing.T) {
	ranker := NewRanker()
	for i := 0; i < 3; i++ {
		ranker.MarkDisplayed("business-meal-basic")
	}

	suggestions := ranker.Suggest(model.Receipt{Category: "business_meal", TotalAmount: 5000})
	assert.NotContains(t, suggestionIDs(suggestions), "business-meal-basic")
	assert.Equal(t, "business-meal-limits", suggestions[0].Tip.ID)
}

func TestRanker_NeverExceedsLimits(t *testing.T) {
	ranker := NewRanker()
	receipts := []model.Receipt{
		{Category: "business_meal", TotalAmount: 5000, VendorName: "Cafe Luna"},
		{Category: "home_office", TotalAmount: 12000},
		{Category: "travel", TotalAmount: 45000},
		{TotalAmount: 300000},
	}

	for i := 0; i < 200; i++ {
		suggestions := ranker.Suggest(receipts[i%len(receipts)])
		assert.LessOrEqual(t, len(suggestions), MaxSuggestions)
		for _, s := range suggestions {
			assert.Less(t, s.Tip.DisplayCount, s.Tip.MaxDisplays, "exhausted tip %s suggested", s.Tip.ID)
			assert.Greater(t, s.RelevanceScore, 0.0)
			assert.LessOrEqual(t, s.RelevanceScore, 100.0)
			ranker.MarkDisplayed(s.Tip.ID)
		}
	}

	for _, tip := range ranker.Tips() {
		assert.LessOrEqual(t, tip.DisplayCount, tip.MaxDisplays, tip.ID)
	}
	for _, r := range receipts {
		assert.Empty(t, ranker.Suggest(r))
	}
}

func TestRanker_TieBreaks(t *testing.T) {
	ranker := rankerWith(
		model.EducationalTip{ID: "general-a", Category: model.TipGeneral, MaxDisplays: 1, Priority: 5},
		model.EducationalTip{ID: "specific", Category: model.TipEquipment, MaxDisplays: 1, Priority: 15},
		model.EducationalTip{ID: "general-b", Category: model.TipGeneral, MaxDisplays: 1, Priority: 5},
	)

	suggestions := ranker.Suggest(model.Receipt{})
	require.Len(t, suggestions, 2)
	assert.Equal(t, []string{"specific", "general-a"}, suggestionIDs(suggestions))
	assert.Equal(t, suggestions[0].RelevanceScore, suggestions[1].RelevanceScore)
}

func TestRanker_ClampsAndExcludesZero(t *testing.T) {
	lo, hi := int64(0), int64(1000)
	ranker := rankerWith(
		model.EducationalTip{ID: "zero", Category: model.TipEquipment, MaxDisplays: 5, Priority: 0},
		model.EducationalTip{
			ID:       "maxed",
			Category: model.TipBusinessMeal,
			Triggers: model.TriggerConditions{
				AmountMin:   &lo,
				AmountMax:   &hi,
				VendorTypes: []string{"bistro"},
				Categories:  []string{"business_meal"},
			},
			MaxDisplays: 5,
			Priority:    90,
		},
		model.EducationalTip{ID: "decayed", Category: model.TipHomeOffice, DisplayCount: 4, MaxDisplays: 5, Priority: 10},
	)

	suggestions := ranker.Suggest(model.Receipt{Category: "business_meal", TotalAmount: 1000, VendorName: "Le Bistro"})
	require.Len(t, suggestions, 1)
	assert.Equal(t, "maxed", suggestions[0].Tip.ID)
	assert.Equal(t, 100.0, suggestions[0].RelevanceScore)
}

func TestRanker_AmountRangeOpenEnds(t *testing.T) {
	maxOnly := int64(500)
	ranker := rankerWith(
		model.EducationalTip{ID: "max-only", Category: model.TipEquipment, Triggers: model.TriggerConditions{AmountMax: &maxOnly}, MaxDisplays: 1, Priority: 1},
	)

	suggestions := ranker.Suggest(model.Receipt{TotalAmount: 0})
	require.Len(t, suggestions, 1)
	assert.Equal(t, 31.0, suggestions[0].RelevanceScore)
	assert.Equal(t, "Relevant for this expense amount", suggestions[0].Reason)

	suggestions = ranker.Suggest(model.Receipt{TotalAmount: 501})
	require.Len(t, suggestions, 1)
	assert.Equal(t, 1.0, suggestions[0].RelevanceScore)
}

func TestRanker_MarkDisplayed(t *testing.T) {
	ranker := NewRanker()
	ranker.MarkDisplayed("general-mixed-use")
	ranker.MarkDisplayed("general-mixed-use")
	ranker.MarkDisplayed("does-not-exist")

	assert.Equal(t, map[string]int{"general-mixed-use": 2}, ranker.DisplayCounts())
}

func TestRanker_RestoreDisplayCounts(t *testing.T) {
	ranker := NewRanker(WithDisplayCounts(map[string]int{
		"business-meal-basic": 3,
		"unknown":             7,
		"general-mixed-use":   -1,
	}))

	assert.Equal(t, map[string]int{"business-meal-basic": 3}, ranker.DisplayCounts())
	suggestions := ranker.Suggest(model.Receipt{Category: "business_meal", TotalAmount: 5000})
	assert.NotContains(t, suggestionIDs(suggestions), "business-meal-basic")
}

func TestRanker_RandomGeneralTip(t *testing.T) {
	ranker := NewRanker(WithRand(rand.New(rand.NewPCG(1, 2))))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tip, ok := ranker.RandomGeneralTip()
		require.True(t, ok)
		assert.Equal(t, model.TipGeneral, tip.Category)
		seen[tip.ID] = true
	}
	assert.Greater(t, len(seen), 1, "selection should vary")

	for _, tip := range ranker.TipsByCategory(model.TipGeneral) {
		for i := 0; i < tip.MaxDisplays; i++ {
			ranker.MarkDisplayed(tip.ID)
		}
	}
	_, ok := ranker.RandomGeneralTip()
	assert.False(t, ok)
}

func TestRanker_TipsAreCopies(t *testing.T) {
	ranker := NewRanker()

	tips := ranker.Tips()
	require.Len(t, tips, 12)
	tips[0].DisplayCount = 99
	tips[0].Triggers.Categories[0] = "changed"
	*tips[0].Triggers.AmountMin = 1

	fresh := ranker.Tips()
	assert.Equal(t, 0, fresh[0].DisplayCount)
	assert.Equal(t, "business_meal", fresh[0].Triggers.Categories[0])
	assert.Equal(t, int64(1000), *fresh[0].Triggers.AmountMin)

	assert.Len(t, ranker.TipsByCategory(model.TipHomeOffice), 2)
	assert.Len(t, ranker.TipsByCategory(model.TipGeneral), 6)
	assert.Empty(t, ranker.TipsByCategory("unknown"))
}
