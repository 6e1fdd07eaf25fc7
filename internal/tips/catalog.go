package tips

import "github.com/Veraticus/tally/internal/model"

func cents(v int64) *int64 {
	return &v
}

// defaultCatalog returns the built-in tips in display order.
func defaultCatalog() []model.EducationalTip {
	return []model.EducationalTip{
		{
			ID:       "business-meal-basic",
			Title:    "Business Meal Deductions",
			Content:  "💡 Business meals are typically 50% deductible when discussing work with clients or colleagues. Keep notes about who attended and what was discussed.",
			Category: model.TipBusinessMeal,
			Triggers: model.TriggerConditions{
				AmountMin:   cents(1000),
				AmountMax:   cents(20000),
				VendorTypes: []string{"restaurant", "cafe", "food"},
				Categories:  []string{"business_meal"},
			},
			MaxDisplays: 3,
			Priority:    10,
		},
		{
			ID:       "business-meal-limits",
			Title:    "Meal Deduction Limits",
			Content:  "💡 Entertainment expenses (like sporting events) are generally not deductible, even if business is discussed. Focus on meals where business is the primary purpose.",
			Category: model.TipBusinessMeal,
			Triggers: model.TriggerConditions{
				AmountMin:  cents(5000),
				Categories: []string{"business_meal", "entertainment"},
			},
			MaxDisplays: 2,
			Priority:    8,
		},
		{
			ID:       "home-office-basics",
			Title:    "Home Office Deduction",
			Content:  "💡 Home office expenses can include a portion of your rent, utilities, and internet costs. The space must be used regularly and exclusively for business.",
			Category: model.TipHomeOffice,
			Triggers: model.TriggerConditions{
				Categories: []string{"home_office", "utilities", "internet"},
			},
			MaxDisplays: 3,
			Priority:    9,
		},
		{
			ID:       "home-office-simplified",
			Title:    "Simplified Home Office Method",
			Content:  "💡 The IRS offers a simplified method: deduct $5 per square foot of home office space, up to 300 square feet ($1,500 maximum). This can be easier than tracking actual expenses.",
			Category: model.TipHomeOffice,
			Triggers: model.TriggerConditions{
				Categories: []string{"home_office"},
			},
			MaxDisplays: 2,
			Priority:    7,
		},
		{
			ID:       "equipment-section179",
			Title:    "Equipment Deductions",
			Content:  "💡 Section 179 allows you to deduct the full cost of qualifying equipment in the year of purchase, rather than depreciating it over several years. Great for computers, furniture, and machinery!",
			Category: model.TipEquipment,
			Triggers: model.TriggerConditions{
				AmountMin:  cents(50000),
				Categories: []string{"equipment", "office_supplies"},
			},
			MaxDisplays: 3,
			Priority:    10,
		},
		{
			ID:       "equipment-depreciation",
			Title:    "Depreciation vs. Immediate Deduction",
			Content:  "💡 Business equipment over $2,500 may need to be depreciated over several years instead of deducted immediately. Consult a tax professional for large purchases.",
			Category: model.TipEquipment,
			Triggers: model.TriggerConditions{
				AmountMin: cents(250000),
			},
			MaxDisplays: 2,
			Priority:    9,
		},
		{
			ID:          "general-recordkeeping",
			Title:       "Keep Good Records",
			Content:     "💡 The IRS recommends keeping receipts and records for at least 3 years. This app helps you organize everything in one place!",
			Category:    model.TipGeneral,
			MaxDisplays: 2,
			Priority:    5,
		},
		{
			ID:          "general-ordinary-necessary",
			Title:       "Ordinary and Necessary Test",
			Content:     "💡 To be deductible, expenses must be both \"ordinary\" (common in your industry) and \"necessary\" (helpful for your business). When in doubt, ask yourself: would most people in my profession have this expense?",
			Category:    model.TipGeneral,
			MaxDisplays: 3,
			Priority:    6,
		},
		{
			ID:          "general-mixed-use",
			Title:       "Personal vs. Business Use",
			Content:     "💡 If you use something for both personal and business purposes (like your phone), you can only deduct the business portion. Keep track of your business usage percentage.",
			Category:    model.TipGeneral,
			MaxDisplays: 3,
			Priority:    7,
		},
		{
			ID:          "general-documentation",
			Title:       "Documentation Best Practices",
			Content:     "💡 For each expense, note: date, amount, business purpose, and who was involved. This makes tax time much easier and protects you in an audit.",
			Category:    model.TipGeneral,
			MaxDisplays: 2,
			Priority:    8,
		},
		{
			ID:       "professional-services",
			Title:    "Professional Service Deductions",
			Content:  "💡 Legal fees, accounting costs, and consulting services directly related to your business are fully deductible. Keep invoices and statements organized.",
			Category: model.TipGeneral,
			Triggers: model.TriggerConditions{
				AmountMin:  cents(10000),
				Categories: []string{"professional_services"},
			},
			MaxDisplays: 2,
			Priority:    7,
		},
		{
			ID:       "travel-overnight",
			Title:    "Business Travel Deductions",
			Content:  "💡 When traveling overnight for business, you can deduct transportation, lodging, and 50% of meals. Keep all receipts and document the business purpose.",
			Category: model.TipGeneral,
			Triggers: model.TriggerConditions{
				AmountMin:  cents(10000),
				Categories: []string{"travel", "lodging"},
			},
			MaxDisplays: 3,
			Priority:    9,
		},
	}
}
