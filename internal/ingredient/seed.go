package ingredient

// SeedRecords returns the built-in reference catalog. IDs follow list order
// starting at 1, matching the order the records are inserted by the seeder.
func SeedRecords() []Record {
	records := []Record{
		{
			CanonicalName: "Water",
			Aliases:       []string{"Aqua", "H2O"},
			Category:      "Solvent",
			HealthRating:  10,
			Description:   "Universal solvent, completely safe for all uses.",
		},
		{
			CanonicalName: "Glycerin",
			Aliases:       []string{"Glycerol"},
			Category:      "Humectant",
			HealthRating:  9,
			Description:   "Natural moisturizing ingredient that helps skin retain moisture.",
		},
		{
			CanonicalName: "Phenoxyethanol",
			Category:      "Preservative",
			HealthRating:  5,
			RiskFactors:   []string{"skin irritation", "allergic reactions"},
			Description:   "Synthetic preservative that can cause irritation in some individuals.",
		},
		{
			CanonicalName: "Sodium Lauryl Sulfate",
			Aliases:       []string{"SLS"},
			Category:      "Surfactant",
			HealthRating:  3,
			RiskFactors:   []string{"skin irritation", "dryness", "allergic reactions"},
			Description:   "Strong cleansing agent that can strip natural oils and irritate skin.",
		},
		{
			CanonicalName: "Tocopherol",
			Aliases:       []string{"Vitamin E"},
			Category:      "Antioxidant",
			HealthRating:  9,
			Description:   "Vitamin E derivative that protects skin from free radicals and oxidative stress.",
		},
		{
			CanonicalName: "Fragrance",
			Aliases:       []string{"Parfum", "Aroma"},
			Category:      "Fragrance",
			HealthRating:  4,
			RiskFactors:   []string{"allergic reactions", "skin irritation", "hormone disruption"},
			Description:   "Mixture of scent chemicals that can cause allergic reactions and irritation.",
		},
		{
			CanonicalName: "Parabens",
			Aliases:       []string{"Methylparaben", "Propylparaben", "Butylparaben", "Ethylparaben"},
			Category:      "Preservative",
			HealthRating:  3,
			RiskFactors:   []string{"hormone disruption", "allergic reactions"},
			Description:   "Preservatives that may disrupt hormone function and cause allergic reactions.",
		},
		{
			CanonicalName: "Retinol",
			Aliases:       []string{"Vitamin A", "Retinoic Acid"},
			Category:      "Anti-aging",
			HealthRating:  7,
			RiskFactors:   []string{"skin irritation", "sun sensitivity"},
			Description:   "Vitamin A derivative that promotes cell turnover but can cause irritation.",
		},
		{
			CanonicalName: "Hyaluronic Acid",
			Aliases:       []string{"Sodium Hyaluronate"},
			Category:      "Humectant",
			HealthRating:  10,
			Description:   "Natural substance that attracts and retains moisture in the skin.",
		},
		{
			CanonicalName: "Salicylic Acid",
			Aliases:       []string{"Beta Hydroxy Acid", "BHA"},
			Category:      "Exfoliant",
			HealthRating:  8,
			RiskFactors:   []string{"skin irritation", "sun sensitivity"},
			Description:   "Exfoliating acid that helps clear pores but may cause irritation.",
		},
		{
			CanonicalName: "Niacinamide",
			Aliases:       []string{"Vitamin B3", "Nicotinamide"},
			Category:      "Vitamin",
			HealthRating:  9,
			Description:   "Form of vitamin B3 that improves skin texture and reduces inflammation.",
		},
		{
			CanonicalName: "Titanium Dioxide",
			Category:      "Sunscreen",
			HealthRating:  8,
			RiskFactors:   []string{"inhalation risk"},
			Description:   "Mineral sunscreen ingredient that physically blocks UV rays.",
		},
		{
			CanonicalName: "Zinc Oxide",
			Category:      "Sunscreen",
			HealthRating:  9,
			Description:   "Mineral sunscreen ingredient with anti-inflammatory properties.",
		},
		{
			CanonicalName: "Aloe Vera",
			Aliases:       []string{"Aloe Barbadensis Leaf Extract"},
			Category:      "Soothing",
			HealthRating:  10,
			Description:   "Natural plant extract with soothing and healing properties.",
		},
		{
			CanonicalName: "Dimethicone",
			Aliases:       []string{"Silicone"},
			Category:      "Emollient",
			HealthRating:  6,
			RiskFactors:   []string{"pore clogging"},
			Description:   "Silicone-based ingredient that creates a barrier on skin and can trap debris.",
		},
	}
	for i := range records {
		records[i].ID = uint(i + 1)
		if records[i].Aliases == nil {
			records[i].Aliases = []string{}
		}
		if records[i].RiskFactors == nil {
			records[i].RiskFactors = []string{}
		}
	}
	return records
}
