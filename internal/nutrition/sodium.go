package nutrition

import (
	"github.com/vladimiradmaev/care-planner/internal/domain"
)

// DASHSodiumLimitMg is the per-meal sodium below which a meal counts as DASH compliant
const DASHSodiumLimitMg = 400

// Sodium levels
const (
	SodiumHigh    = "high"
	SodiumMedium  = "medium"
	SodiumLow     = "low"
	SodiumUnknown = "unknown"
)

type sodiumBucket struct {
	level    string
	sodiumMg float64
	keywords []string
	note     string
}

// sodiumBuckets are checked high first; the first bucket with a keyword in
// the description decides the level
var sodiumBuckets = []sodiumBucket{
	{
		level:    SodiumHigh,
		sodiumMg: 800,
		keywords: []string{
			"pickle", "achar", "papad", "chips", "namkeen", "bhujia", "instant noodles", "noodles",
			"ramen", "soy sauce", "pizza", "burger", "fries", "bacon", "sausage", "ham", "salami",
			"processed", "canned", "salted", "samosa", "pakora", "cheese", "biscuits",
		},
		note: "High sodium food - keep total sodium under 1,500mg per day",
	},
	{
		level:    SodiumMedium,
		sodiumMg: 350,
		keywords: []string{
			"bread", "sandwich", "dosa", "idli", "upma", "poha", "biryani", "paneer", "butter",
			"curry", "soup", "pasta", "roti", "chapati", "chicken", "egg", "eggs", "fish",
		},
		note: "Moderate sodium - balance the rest of the day with low-sodium foods",
	},
	{
		level:    SodiumLow,
		sodiumMg: 50,
		keywords: []string{
			"apple", "banana", "orange", "mango", "grapes", "watermelon", "fruit", "salad",
			"vegetables", "spinach", "broccoli", "oats", "rice", "brown rice", "dal", "lentils",
			"milk", "yogurt", "curd", "tofu", "nuts", "almonds", "tea", "coffee", "water",
			"potato", "sweet potato",
		},
		note: "Low sodium choice - good for blood pressure control",
	},
}

var unknownSodium = sodiumBucket{
	level:    SodiumUnknown,
	sodiumMg: 300,
	note:     "Sodium content unknown - check food labels where possible",
}

// potassiumRich foods get an extra note; potassium helps offset sodium
var potassiumRich = []string{"banana", "spinach", "potato", "sweet potato", "orange", "yogurt", "lentils", "dal", "broccoli"}

// AssessSodium classifies a meal's sodium load for hypertension
func AssessSodium(description, quantity string) domain.SodiumAssessment {
	meal := parseMeal(description)
	bucket := unknownSodium
	for _, b := range sodiumBuckets {
		if meal.hasAny(b.keywords) {
			bucket = b
			break
		}
	}

	sodium := bucket.sodiumMg * Multiplier(quantity)
	assessment := domain.SodiumAssessment{
		Level:         bucket.level,
		SodiumMg:      sodium,
		DASHCompliant: sodium < DASHSodiumLimitMg,
		Notes:         []string{bucket.note},
	}
	if meal.hasAny(potassiumRich) {
		assessment.Notes = append(assessment.Notes, "Rich in potassium, which helps lower blood pressure")
	}
	if !assessment.DASHCompliant {
		assessment.Notes = append(assessment.Notes, "Above the DASH per-meal sodium target")
	}
	return assessment
}

func (m parsedMeal) hasAny(keywords []string) bool {
	for _, kw := range keywords {
		if m.hasKeyword(kw) {
			return true
		}
	}
	return false
}

// SodiumLevel buckets a sodium amount the same way the keyword table does
func SodiumLevel(mg float64) string {
	switch {
	case mg >= 600:
		return SodiumHigh
	case mg >= 200:
		return SodiumMedium
	default:
		return SodiumLow
	}
}

// AssessSodiumMg builds an assessment from a known sodium amount
func AssessSodiumMg(mg float64) domain.SodiumAssessment {
	assessment := domain.SodiumAssessment{
		Level:         SodiumLevel(mg),
		SodiumMg:      mg,
		DASHCompliant: mg < DASHSodiumLimitMg,
		Notes:         []string{},
	}
	if !assessment.DASHCompliant {
		assessment.Notes = append(assessment.Notes, "Above the DASH per-meal sodium target")
	}
	return assessment
}
