package render

import (
	"time"

	"github.com/altibbe/transparency-api/internal/models"
)

// SampleData returns the fixed demonstration report used by the sample
// download endpoint. Nothing about it is persisted.
func SampleData() Data {
	audience := "Children"
	description := "Organic whole wheat crackers made with locally sourced ingredients, designed for health-conscious families. No artificial preservatives, colors, or flavors. Made in small batches to ensure freshness and quality."
	location := "Portland, Oregon, USA"
	now := time.Now()

	return Data{
		Product: models.Product{
			ID:          "sample-1",
			Name:        "Healthy Kids Crackers",
			Category:    "Food & Beverages",
			Audience:    &audience,
			Description: &description,
			Location:    &location,
			Certifications: models.BoolMap{
				"organic":   true,
				"nonGmo":    false,
				"fairTrade": true,
			},
			Status:    models.StatusCompleted,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Report: models.Report{
			ID:                "TPR-2024-001",
			ProductID:         "sample-1",
			TransparencyScore: 92,
			HealthScore:       "A+",
			Highlights: models.StringList{
				"100% Organic Certified Ingredients",
				"75% Locally Sourced Materials (within 200 miles)",
				"Zero Artificial Preservatives or Colors",
				"Child-Safe Manufacturing Environment",
				"Fair Trade Certified Supply Chain",
				"Comprehensive Allergen Management System",
			},
			ReportData: models.JSONMap{
				"analysis": "This product demonstrates exceptional transparency with comprehensive ingredient disclosure, ethical sourcing practices, and strong safety protocols for its target demographic.",
				"recommendations": []string{
					"Consider obtaining Non-GMO Project Verification to enhance consumer confidence",
					"Implement QR code linking to live transparency dashboard for real-time updates",
					"Explore carbon-neutral shipping options to improve environmental profile",
				},
			},
			GeneratedAt: now,
		},
		Questions: []QA{
			{
				QuestionText: "What percentage of your ingredients are sourced locally (within 200 miles)?",
				Response:     "75% - We work directly with local farms in Oregon and Washington for our primary wheat, seeds, and oils. Only our sea salt is sourced from California.",
			},
			{
				QuestionText: "Are there any common allergens present in your manufacturing facility?",
				Response:     "Our facility also processes milk and soy products. We follow strict cleaning protocols between batches, conduct regular allergen testing, and maintain separate production lines for allergen-free products.",
			},
			{
				QuestionText: "What specific measures do you take to ensure product safety for children?",
				Response:     "We follow enhanced safety protocols including: child-resistant packaging design review, reduced sodium formulation (50% less than standard crackers), choking hazard assessment for size and texture, and third-party safety testing for all ingredients.",
			},
			{
				QuestionText: "How do you verify the organic status of your ingredients throughout the supply chain?",
				Response:     "We maintain direct relationships with certified organic farms, require USDA organic certificates for all suppliers, conduct quarterly on-site audits, and use blockchain technology to track ingredients from farm to package.",
			},
		},
	}
}
