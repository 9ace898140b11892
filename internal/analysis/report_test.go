package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
	"github.com/vladimiradmaev/care-planner/internal/utils"
)

func TestBuildWeeklyReport(t *testing.T) {
	var readings []domain.Reading
	readings = append(readings, repeat(domain.MetricFoodCalories, 16, 450)...)
	readings = append(readings, reading(100, domain.MetricActivityMinutes, 160, 24))
	readings = append(readings, repeat(domain.MetricMedicationIntake, 7, 1)...)
	readings = append(readings, repeat(domain.MetricGlucose, 4, 110)...)

	report := BuildWeeklyReport(WeeklyInput{Readings: readings, ActiveMedications: 1, Now: baseTime})

	assert.Equal(t, RatingExcellent, report.Diet.Rating)
	assert.Equal(t, RatingExcellent, report.Exercise.Rating)
	assert.Equal(t, 100.0, report.Medication.Percentage)
	assert.True(t, report.BloodSugar.HasData)
	assert.Equal(t, Disclaimer, report.Disclaimer)
	assert.Equal(t, []string{"Great job meeting your exercise goal! Keep up the excellent work."}, report.Suggestions)
}

func TestImprovementSuggestions(t *testing.T) {
	diet := DietConsistency(repeat(domain.MetricFoodCalories, 3, 400))
	exercise := ExerciseConsistency([]domain.Reading{reading(1, domain.MetricActivityMinutes, 30, 24)})
	medication := MedicationAdherence(1, repeat(domain.MetricMedicationIntake, 3, 1))
	glucose := Aggregate(domain.MetricGlucose, []domain.Reading{
		reading(1, domain.MetricGlucose, 150, 72),
		reading(2, domain.MetricGlucose, 190, 48),
		reading(3, domain.MetricGlucose, 220, 24),
		reading(4, domain.MetricGlucose, 240, 1),
	})

	suggestions := ImprovementSuggestions(diet, exercise, medication, glucose)

	require.Len(t, suggestions, 5)
	assert.Contains(t, suggestions[0], "logging your meals")
	assert.Contains(t, suggestions[1], "120 minutes short")
	assert.Contains(t, suggestions[2], "medication adherence")
	assert.Contains(t, suggestions[3], "showing an increase")
	assert.Contains(t, suggestions[4], "target range")
}

func TestImprovementSuggestions_DefaultMessage(t *testing.T) {
	diet := DietConsistency(repeat(domain.MetricFoodCalories, 21, 400))
	exercise := ExerciseConsistency([]domain.Reading{reading(1, domain.MetricActivityMinutes, 120, 24)})
	medication := MedicationAdherence(0, nil)
	glucose := Aggregate(domain.MetricGlucose, repeat(domain.MetricGlucose, 4, 110))

	assert.Equal(t,
		[]string{"You're doing well overall! Continue following your care plan."},
		ImprovementSuggestions(diet, exercise, medication, glucose),
	)
}

func TestSummarizeActivity(t *testing.T) {
	summary := SummarizeActivity([]domain.Reading{
		reading(1, domain.MetricActivityMinutes, 90, 48),
		reading(2, domain.MetricActivityMinutes, 30, 24),
		reading(3, domain.MetricWaterML, 500, 24),
	})

	assert.Equal(t, 120.0, summary.TotalMinutes)
	assert.False(t, summary.OnTrack)
	assert.Equal(t, guidelines.CitationAHAActivity, summary.Citation)
}

func TestSummarizeWater(t *testing.T) {
	progress := SummarizeWater(repeat(domain.MetricWaterML, 4, 250))

	assert.Equal(t, 1000.0, progress.TotalML)
	assert.Equal(t, 4, progress.Glasses)
	assert.Equal(t, 40.0, progress.Percentage)
	assert.Equal(t, 1500.0, progress.RemainingML)

	over := SummarizeWater(repeat(domain.MetricWaterML, 12, 250))
	assert.Equal(t, 120.0, over.Percentage)
	assert.Equal(t, 0.0, over.RemainingML)
}

func TestEvaluateHbA1c(t *testing.T) {
	missing := EvaluateHbA1c(nil, baseTime)
	assert.Nil(t, missing.Last)
	assert.Contains(t, missing.Reminder, "No HbA1c records")

	recent := reading(1, domain.MetricHbA1c, 6.8, 24*30)
	status := EvaluateHbA1c(&recent, baseTime)
	require.NotNil(t, status.Classification)
	assert.Equal(t, guidelines.HbA1cGoodControl, status.Classification.Status)
	assert.Equal(t, 30, status.DaysSinceTest)
	assert.Empty(t, status.Reminder)

	old := reading(2, domain.MetricHbA1c, 7.4, 24*120)
	status = EvaluateHbA1c(&old, baseTime)
	assert.Equal(t, guidelines.HbA1cAboveTarget, status.Classification.Status)
	assert.Contains(t, status.Reminder, "120 days")
}

func TestBuildDailyCarePlan(t *testing.T) {
	plan := BuildDailyCarePlan([]domain.Disease{domain.DiseaseHypertension, domain.DiseaseDiabetes}, baseTime)

	require.NotEmpty(t, plan.Tasks)
	for i := 1; i < len(plan.Tasks); i++ {
		assert.LessOrEqual(t,
			utils.TimeToMinutes(plan.Tasks[i-1].Time),
			utils.TimeToMinutes(plan.Tasks[i].Time),
		)
	}
	assert.Len(t, plan.Tasks, 10)
	assert.Equal(t, "07:00", plan.Tasks[0].Time)
	assert.Equal(t, "22:00", plan.Tasks[len(plan.Tasks)-1].Time)
	assert.Equal(t, []string{guidelines.CitationADA, guidelines.CitationAHA}, plan.Citations)
	assert.Len(t, plan.Tips, 6)
}

func TestBuildDailyCarePlan_NoConditions(t *testing.T) {
	plan := BuildDailyCarePlan(nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Len(t, plan.Tasks, 4)
	assert.Empty(t, plan.Citations)
}
