package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/care-planner/internal/domain"
)

func TestMultiplier(t *testing.T) {
	tests := []struct {
		quantity string
		expected float64
	}{
		{"1 serving", 1.0},
		{"", 1.0},
		{"2 bowls", 2.0},
		{"Two plates", 2.0},
		{"double portion", 2.0},
		{"half plate", 0.5},
		{"0.5 cup", 0.5},
		{"3 pieces", 3.0},
		{"three", 3.0},
		{"large bowl", 1.5},
		{"small bowl", 0.7},
		{"large, 2 plates", 2.0},
		{"half of 3", 0.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Multiplier(tt.quantity), "quantity %q", tt.quantity)
	}
}

func TestParseCount(t *testing.T) {
	for token, expected := range map[string]float64{"2": 2, "two": 2, "3x": 3, "1.5": 1.5, "half": 0.5} {
		v, ok := parseCount(token)
		require.True(t, ok, token)
		assert.Equal(t, expected, v, token)
	}
	for _, token := range []string{"and", "0", "-1", "100", "nan", "inf", ""} {
		_, ok := parseCount(token)
		assert.False(t, ok, token)
	}
}

func TestEstimateTotals_CountTokenAndAlias(t *testing.T) {
	totals := EstimateTotals("2 idly", "1 serving")

	assert.Equal(t, []string{"idli"}, totals.MatchedFoods)
	assert.InDelta(t, 78, totals.Calories, 1e-9)
	assert.InDelta(t, 16, totals.Carbohydrates, 1e-9)
	assert.InDelta(t, 0.4, totals.Sugar, 1e-9)
	assert.InDelta(t, 0.8, totals.Fiber, 1e-9)
	assert.InDelta(t, 2.6, totals.Protein, 1e-9)
	assert.Equal(t, 77.0, totals.GlycemicIndex)
	assert.False(t, totals.LowConfidence)
}

func TestEstimateTotals_SumsMacrosAndAveragesGI(t *testing.T) {
	totals := EstimateTotals("Rice and dal.", "1 serving")

	assert.Equal(t, []string{"rice", "dal"}, totals.MatchedFoods)
	assert.InDelta(t, 246, totals.Calories, 1e-9)
	assert.InDelta(t, 48, totals.Carbohydrates, 1e-9)
	assert.InDelta(t, 8.4, totals.Fiber, 1e-9)
	assert.InDelta(t, 51.5, totals.GlycemicIndex, 1e-9)
	assert.InDelta(t, 48*51.5/100, totals.GlycemicLoad, 1e-9)
	assert.InDelta(t, 39.6, totals.NetCarbs, 1e-9)
}

func TestEstimateTotals_MultiplierDoesNotScaleGI(t *testing.T) {
	single := EstimateTotals("banana", "1 serving")
	double := EstimateTotals("banana", "double")

	assert.InDelta(t, single.Calories*2, double.Calories, 1e-9)
	assert.Equal(t, single.GlycemicIndex, double.GlycemicIndex)
	assert.Equal(t, 2.0, double.Multiplier)
}

func TestEstimateTotals_MultiWordFoods(t *testing.T) {
	totals := EstimateTotals("sweet potato with broccoli", "1 serving")

	assert.ElementsMatch(t, []string{"potato", "broccoli", "sweet potato"}, totals.MatchedFoods)
	assert.InDelta(t, 77+34+86, totals.Calories, 1e-9)
	assert.InDelta(t, (78.0+10+63)/3, totals.GlycemicIndex, 1e-9)
}

func TestEstimateTotals_UnknownFood(t *testing.T) {
	totals := EstimateTotals("mystery stew", "large")

	assert.True(t, totals.LowConfidence)
	assert.Equal(t, []string{UnknownFood}, totals.MatchedFoods)
	assert.InDelta(t, 300, totals.Calories, 1e-9)
	assert.InDelta(t, 37.5, totals.Carbohydrates, 1e-9)
	assert.InDelta(t, 7.5, totals.Sugar, 1e-9)
	assert.InDelta(t, 3, totals.Fiber, 1e-9)
	assert.InDelta(t, 12, totals.Protein, 1e-9)
	assert.Equal(t, 50.0, totals.GlycemicIndex)
}

func TestEstimateTotals_RepeatedMentionsAddServings(t *testing.T) {
	totals := EstimateTotals("idli, then 2 idli", "")

	assert.Equal(t, []string{"idli"}, totals.MatchedFoods)
	assert.InDelta(t, 39*3, totals.Calories, 1e-9)
	assert.Equal(t, 77.0, totals.GlycemicIndex)
}

func TestSpikeRisk(t *testing.T) {
	high := SpikeRisk(domain.NutritionTotals{GlycemicIndex: 80, NetCarbs: 50, Sugar: 20, Fiber: 1})
	assert.Equal(t, "high", high.Level)
	assert.Equal(t, 10, high.Score)
	assert.Len(t, high.Factors, 4)

	medium := SpikeRisk(domain.NutritionTotals{GlycemicIndex: 60, NetCarbs: 35, Sugar: 2, Fiber: 3})
	assert.Equal(t, "medium", medium.Level)
	assert.Equal(t, 3, medium.Score)

	low := SpikeRisk(domain.NutritionTotals{GlycemicIndex: 30, NetCarbs: 10, Sugar: 2, Fiber: 8})
	assert.Equal(t, "low", low.Level)
	assert.Equal(t, 0, low.Score)
	assert.Empty(t, low.Factors)

	boundary := SpikeRisk(domain.NutritionTotals{GlycemicIndex: 70, NetCarbs: 45, Sugar: 15, Fiber: 2})
	assert.Equal(t, 1+2+1, boundary.Score)
}

func TestSuitability(t *testing.T) {
	caution := Suitability(domain.NutritionTotals{Carbohydrates: 50, Sugar: 3, GlycemicIndex: 60})
	assert.False(t, caution.IsSuitable)
	assert.Equal(t, "Caution", caution.Rating)

	sugary := Suitability(domain.NutritionTotals{Carbohydrates: 20, Sugar: 16, GlycemicIndex: 40})
	assert.False(t, sugary.IsSuitable)

	acceptable := Suitability(domain.NutritionTotals{Carbohydrates: 35, Sugar: 2, GlycemicIndex: 60})
	assert.True(t, acceptable.IsSuitable)
	assert.Equal(t, "Acceptable", acceptable.Rating)
	assert.Len(t, acceptable.Improvements, 1)

	good := Suitability(domain.NutritionTotals{Carbohydrates: 10, Sugar: 1, Fiber: 6, Protein: 20, GlycemicIndex: 20})
	assert.True(t, good.IsSuitable)
	assert.Equal(t, "Good", good.Rating)
	assert.Len(t, good.Positives, 4)
	assert.Empty(t, good.Improvements)
}

func TestEstimate_DiabetesVariant(t *testing.T) {
	analysis := Estimate("2 idly", "1 serving", domain.ConditionDiabetes)

	assert.Equal(t, SourceRuleBased, analysis.Source)
	assert.Equal(t, domain.ConditionDiabetes, analysis.Condition)
	require.NotNil(t, analysis.SpikeRisk)
	require.NotNil(t, analysis.Suitability)
	assert.Nil(t, analysis.Sodium)
	assert.Equal(t, 78.0, analysis.Nutrition.Calories)
	assert.Equal(t, "medium", analysis.SpikeRisk.Level)
	assert.Equal(t, Disclaimer, analysis.Disclaimer)
}

func TestEstimate_UnknownConditionDefaultsToDiabetes(t *testing.T) {
	analysis := Estimate("apple", "", "")
	assert.Equal(t, domain.ConditionDiabetes, analysis.Condition)
	assert.NotNil(t, analysis.Suitability)
}

func TestEstimate_HypertensionVariant(t *testing.T) {
	analysis := Estimate("pizza", "1 serving", domain.ConditionHypertension)

	require.NotNil(t, analysis.Sodium)
	assert.Nil(t, analysis.SpikeRisk)
	assert.Equal(t, SodiumHigh, analysis.Sodium.Level)
	assert.False(t, analysis.Sodium.DASHCompliant)
	assert.Equal(t, 800.0, analysis.Nutrition.SodiumMg)
}
