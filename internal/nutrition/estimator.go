package nutrition

import (
	"math"
	"strings"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
)

// SourceRuleBased marks an analysis produced by the local food table
const SourceRuleBased = "rule_based"

// Disclaimer attached to every food analysis
const Disclaimer = "Nutritional estimates are approximate. This is not medical advice. Consult your healthcare provider for personalized dietary guidance."

// UnknownFood is reported when nothing in the description matches the table
const UnknownFood = "unknown food"

var unknownFood = food(UnknownFood, 200, 25, 5, 2, 8, 50)

const punctuation = ",.!?;:()\"'"

// match is one recognised food and the servings attributed to it
type match struct {
	food     domain.FoodPropertyRecord
	servings float64
}

// parsedMeal is a normalized description split into tokens
type parsedMeal struct {
	text   string
	tokens []string
}

func parseMeal(description string) parsedMeal {
	fields := strings.Fields(strings.ToLower(description))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := strings.Trim(f, punctuation); t != "" {
			tokens = append(tokens, t)
		}
	}
	return parsedMeal{text: strings.Join(tokens, " "), tokens: tokens}
}

// hasKeyword reports a whole-token match for single words and a
// substring match for phrases
func (m parsedMeal) hasKeyword(keyword string) bool {
	if isMultiWord(keyword) {
		return strings.Contains(m.text, keyword)
	}
	for _, t := range m.tokens {
		if t == keyword {
			return true
		}
		if canonical, ok := aliases[t]; ok && canonical == keyword {
			return true
		}
	}
	return false
}

// matchFoods finds single-word foods by exact token and multi-word foods
// by substring. A count token right before a single-word food ("2 idli")
// sets its servings; repeated mentions add up.
func matchFoods(meal parsedMeal) []match {
	var matches []match
	index := make(map[string]int)

	add := func(f domain.FoodPropertyRecord, servings float64) {
		if i, ok := index[f.Name]; ok {
			matches[i].servings += servings
			return
		}
		index[f.Name] = len(matches)
		matches = append(matches, match{food: f, servings: servings})
	}

	for i, tok := range meal.tokens {
		f, ok := Lookup(tok)
		if !ok || isMultiWord(f.Name) {
			continue
		}
		servings := 1.0
		if i > 0 {
			if n, ok := parseCount(meal.tokens[i-1]); ok {
				servings = n
			}
		}
		add(f, servings)
	}

	for _, f := range foodTable {
		if !isMultiWord(f.Name) {
			continue
		}
		if _, seen := index[f.Name]; seen {
			continue
		}
		if strings.Contains(meal.text, f.Name) {
			add(f, 1)
		}
	}
	return matches
}

// EstimateTotals sums the nutrients of every matched food scaled by the
// quantity multiplier. Glycemic index is the plain mean over matched foods.
func EstimateTotals(description, quantity string) domain.NutritionTotals {
	multiplier := Multiplier(quantity)
	matches := matchFoods(parseMeal(description))

	totals := domain.NutritionTotals{Multiplier: multiplier}
	if len(matches) == 0 {
		matches = []match{{food: unknownFood, servings: 1}}
		totals.LowConfidence = true
	}

	var giSum float64
	for _, m := range matches {
		scale := m.servings * multiplier
		totals.Calories += m.food.Calories * scale
		totals.Carbohydrates += m.food.Carbohydrates * scale
		totals.Sugar += m.food.Sugar * scale
		totals.Fiber += m.food.Fiber * scale
		totals.Protein += m.food.Protein * scale
		giSum += m.food.GlycemicIndex
		totals.MatchedFoods = append(totals.MatchedFoods, m.food.Name)
	}
	totals.GlycemicIndex = giSum / float64(len(matches))
	totals.GlycemicLoad = totals.Carbohydrates * totals.GlycemicIndex / 100
	totals.NetCarbs = math.Max(0, totals.Carbohydrates-totals.Fiber)
	return totals
}

// SpikeRisk scores a meal's likely effect on blood glucose. Each factor
// contributes independently.
func SpikeRisk(t domain.NutritionTotals) domain.GlucoseSpikeRisk {
	risk := domain.GlucoseSpikeRisk{Factors: []string{}}
	addFactor := func(points int, factor string) {
		risk.Score += points
		risk.Factors = append(risk.Factors, factor)
	}

	switch {
	case t.GlycemicIndex > guidelines.GIMedium:
		addFactor(3, "High glycemic index food")
	case t.GlycemicIndex > guidelines.GILow:
		addFactor(1, "Medium glycemic index food")
	}

	switch {
	case t.NetCarbs > 45:
		addFactor(3, "High carbohydrate content")
	case t.NetCarbs > 30:
		addFactor(2, "Moderate carbohydrate content")
	}

	switch {
	case t.Sugar > 15:
		addFactor(3, "High sugar content")
	case t.Sugar > 8:
		addFactor(1, "Moderate sugar content")
	}

	if t.Fiber < 2 {
		addFactor(1, "Low fiber content")
	}

	switch {
	case risk.Score >= 6:
		risk.Level = "high"
	case risk.Score >= 3:
		risk.Level = "medium"
	default:
		risk.Level = "low"
	}
	return risk
}

// Suitability rates a meal for someone with type 2 diabetes
func Suitability(t domain.NutritionTotals) domain.MealSuitability {
	s := domain.MealSuitability{IsSuitable: true, Positives: []string{}, Improvements: []string{}}

	switch {
	case t.Carbohydrates > 45:
		s.IsSuitable = false
		s.Improvements = append(s.Improvements, "Consider reducing portion size or choosing a lower-carb alternative")
	case t.Carbohydrates > 30:
		s.Improvements = append(s.Improvements, "Pair with protein or healthy fat to slow glucose absorption")
	}

	switch {
	case t.Sugar > 15:
		s.IsSuitable = false
		s.Improvements = append(s.Improvements, "High sugar content - choose a lower-sugar alternative")
	case t.Sugar > 8:
		s.Improvements = append(s.Improvements, "Moderate sugar - consume in moderation")
	}

	if t.GlycemicIndex > guidelines.GIMedium {
		s.Improvements = append(s.Improvements, "High GI - pair with low-GI foods or add vinegar/lemon")
	}

	if t.Fiber > 5 {
		s.Positives = append(s.Positives, "Good fiber content helps slow glucose absorption")
	}
	if t.Protein > 15 {
		s.Positives = append(s.Positives, "High protein content helps maintain stable blood sugar")
	}
	if t.GlycemicIndex < guidelines.GILow {
		s.Positives = append(s.Positives, "Low glycemic index - good choice for blood sugar control")
	}
	if t.Carbohydrates < 20 && t.Protein > 10 {
		s.Positives = append(s.Positives, "Excellent balance of protein with low carbs")
	}

	switch {
	case !s.IsSuitable:
		s.Rating = "Caution"
	case len(s.Improvements) > 0:
		s.Rating = "Acceptable"
	default:
		s.Rating = "Good"
	}
	return s
}

// Estimate runs the rule-based analysis for the given condition. Unknown
// conditions get the diabetes variant.
func Estimate(description, quantity string, condition domain.Condition) domain.FoodAnalysis {
	if condition != domain.ConditionHypertension {
		condition = domain.ConditionDiabetes
	}

	totals := EstimateTotals(description, quantity)
	sodium := AssessSodium(description, quantity)
	totals.SodiumMg = sodium.SodiumMg

	analysis := domain.FoodAnalysis{
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Condition:   condition,
		Source:      SourceRuleBased,
		Disclaimer:  Disclaimer,
	}

	switch condition {
	case domain.ConditionHypertension:
		analysis.Sodium = &sodium
	default:
		risk := SpikeRisk(totals)
		suitability := Suitability(totals)
		analysis.SpikeRisk = &risk
		analysis.Suitability = &suitability
	}

	analysis.Nutrition = Rounded(totals)
	return analysis
}

// Rounded returns the totals rounded to one decimal place for display
func Rounded(t domain.NutritionTotals) domain.NutritionTotals {
	t.Calories = round1(t.Calories)
	t.Carbohydrates = round1(t.Carbohydrates)
	t.Sugar = round1(t.Sugar)
	t.Fiber = round1(t.Fiber)
	t.Protein = round1(t.Protein)
	t.GlycemicIndex = round1(t.GlycemicIndex)
	t.GlycemicLoad = round1(t.GlycemicLoad)
	t.NetCarbs = round1(t.NetCarbs)
	t.SodiumMg = math.Round(t.SodiumMg)
	return t
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
