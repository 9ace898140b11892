package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/care-planner/internal/domain"
)

func glucoseSummary(avg float64) domain.WeeklySummary {
	return Aggregate(domain.MetricGlucose, repeat(domain.MetricGlucose, 3, avg))
}

func bpSummary(systolic, diastolic float64) domain.WeeklySummary {
	readings := repeat(domain.MetricBloodPressure, 3, systolic)
	for i := range readings {
		readings[i].SecondaryValue = ptr(diastolic)
	}
	return Aggregate(domain.MetricBloodPressure, readings)
}

func categories(plan domain.AdjustmentPlan) []domain.AdjustmentCategory {
	out := make([]domain.AdjustmentCategory, 0, len(plan.Adjustments))
	for _, a := range plan.Adjustments {
		out = append(out, a.Category)
	}
	return out
}

func TestGenerateAdjustments_HighGlucose(t *testing.T) {
	plan := GenerateAdjustments(
		[]domain.Disease{domain.DiseaseDiabetes},
		map[domain.MetricType]domain.WeeklySummary{domain.MetricGlucose: glucoseSummary(190)},
		baseTime,
	)

	assert.Equal(t, []domain.AdjustmentCategory{domain.AdjustmentDiet, domain.AdjustmentActivity}, categories(plan))
	assert.Equal(t, messageAdjusted, plan.Message)
	assert.Equal(t, baseTime, plan.WeekOf)
}

func TestGenerateAdjustments_GlucoseBetweenTargetsDoesNothing(t *testing.T) {
	plan := GenerateAdjustments(
		[]domain.Disease{domain.DiseaseDiabetes},
		map[domain.MetricType]domain.WeeklySummary{domain.MetricGlucose: glucoseSummary(160)},
		baseTime,
	)

	assert.Empty(t, plan.Adjustments)
	assert.NotNil(t, plan.Adjustments)
	assert.Equal(t, messageNoAdjustment, plan.Message)
}

func TestGenerateAdjustments_LowGlucose(t *testing.T) {
	plan := GenerateAdjustments(
		[]domain.Disease{domain.DiseaseDiabetes},
		map[domain.MetricType]domain.WeeklySummary{domain.MetricGlucose: glucoseSummary(75)},
		baseTime,
	)

	require.Len(t, plan.Adjustments, 1)
	assert.Equal(t, domain.AdjustmentDiet, plan.Adjustments[0].Category)
	assert.Contains(t, plan.Adjustments[0].Action, "snack")
}

func TestGenerateAdjustments_Hypertension(t *testing.T) {
	tests := []struct {
		name      string
		systolic  float64
		diastolic float64
		fires     bool
	}{
		{"normal", 115, 75, false},
		{"elevated", 125, 75, false},
		{"stage 1", 132, 78, true},
		{"stage 2", 145, 92, true},
		{"crisis", 185, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := GenerateAdjustments(
				[]domain.Disease{domain.DiseaseHypertension},
				map[domain.MetricType]domain.WeeklySummary{domain.MetricBloodPressure: bpSummary(tt.systolic, tt.diastolic)},
				baseTime,
			)
			if tt.fires {
				assert.Equal(t, []domain.AdjustmentCategory{domain.AdjustmentDiet, domain.AdjustmentWellness}, categories(plan))
			} else {
				assert.Empty(t, plan.Adjustments)
			}
		})
	}
}

func TestGenerateAdjustments_RulesAreIndependent(t *testing.T) {
	summaries := map[domain.MetricType]domain.WeeklySummary{
		domain.MetricGlucose:       glucoseSummary(200),
		domain.MetricBloodPressure: bpSummary(150, 95),
	}

	plan := GenerateAdjustments([]domain.Disease{domain.DiseaseHypertension, domain.DiseaseDiabetes}, summaries, baseTime)

	assert.Equal(t, []domain.AdjustmentCategory{
		domain.AdjustmentDiet,
		domain.AdjustmentActivity,
		domain.AdjustmentDiet,
		domain.AdjustmentWellness,
	}, categories(plan))
}

func TestGenerateAdjustments_IgnoresConditionsUserDoesNotHave(t *testing.T) {
	summaries := map[domain.MetricType]domain.WeeklySummary{
		domain.MetricGlucose:       glucoseSummary(200),
		domain.MetricBloodPressure: bpSummary(150, 95),
	}

	plan := GenerateAdjustments([]domain.Disease{domain.DiseaseHeart}, summaries, baseTime)
	assert.Empty(t, plan.Adjustments)

	plan = GenerateAdjustments(nil, summaries, baseTime)
	assert.Empty(t, plan.Adjustments)
}

func TestGenerateAdjustments_NoDataNoAdjustment(t *testing.T) {
	summaries := map[domain.MetricType]domain.WeeklySummary{
		domain.MetricGlucose:       Aggregate(domain.MetricGlucose, nil),
		domain.MetricBloodPressure: Aggregate(domain.MetricBloodPressure, nil),
	}

	plan := GenerateAdjustments([]domain.Disease{domain.DiseaseDiabetes, domain.DiseaseHypertension}, summaries, baseTime)
	assert.Empty(t, plan.Adjustments)
	assert.Equal(t, messageNoAdjustment, plan.Message)
}
