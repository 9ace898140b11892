package analysis

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
)

var baseTime = time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC)

func reading(id uint, metric domain.MetricType, value float64, hoursAgo int) domain.Reading {
	ts := baseTime.Add(-time.Duration(hoursAgo) * time.Hour)
	return domain.Reading{
		ID:           id,
		UserID:       1,
		MetricType:   metric,
		PrimaryValue: value,
		Timestamp:    ts,
		LogDate:      time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
	}
}

func repeat(metric domain.MetricType, n int, value float64) []domain.Reading {
	out := make([]domain.Reading, n)
	for i := range out {
		out[i] = reading(uint(i+1), metric, value, n-i)
	}
	return out
}

func TestAggregate_NoData(t *testing.T) {
	summary := Aggregate(domain.MetricGlucose, []domain.Reading{reading(1, domain.MetricWaterML, 250, 1)})

	assert.False(t, summary.HasData)
	assert.Equal(t, 0, summary.Count)
	assert.Equal(t, domain.TrendInsufficientData, summary.Trend)
	assert.Nil(t, summary.Category)
	assert.Nil(t, summary.InTargetFraction)
}

func TestAggregate_Glucose(t *testing.T) {
	readings := []domain.Reading{
		reading(1, domain.MetricGlucose, 100, 72),
		reading(2, domain.MetricGlucose, 110, 48),
		reading(3, domain.MetricGlucose, 200, 24),
		reading(4, domain.MetricGlucose, 210, 1),
	}

	summary := Aggregate(domain.MetricGlucose, readings)

	require.True(t, summary.HasData)
	assert.Equal(t, 4, summary.Count)
	assert.InDelta(t, 620, summary.Total, 1e-9)
	assert.InDelta(t, 155, summary.Average, 1e-9)
	assert.Equal(t, 100.0, summary.Min)
	assert.Equal(t, 210.0, summary.Max)
	assert.Equal(t, domain.TrendIncreasing, summary.Trend)
	require.NotNil(t, summary.InTargetFraction)
	assert.InDelta(t, 0.5, *summary.InTargetFraction, 1e-9)
	require.NotNil(t, summary.Category)
	assert.Equal(t, guidelines.GlucoseNormal, summary.Category.Status)
}

func TestAggregate_OrderIndependentAndIdempotent(t *testing.T) {
	readings := []domain.Reading{
		reading(1, domain.MetricGlucose, 90, 100),
		reading(2, domain.MetricGlucose, 95, 80),
		reading(3, domain.MetricGlucose, 140, 60),
		reading(4, domain.MetricGlucose, 160, 40),
		reading(5, domain.MetricGlucose, 170, 20),
		reading(6, domain.MetricWaterML, 250, 10),
	}
	expected := Aggregate(domain.MetricGlucose, readings)

	shuffled := make([]domain.Reading, len(readings))
	copy(shuffled, readings)
	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.Equal(t, expected, Aggregate(domain.MetricGlucose, shuffled))
	}
	assert.Equal(t, expected, Aggregate(domain.MetricGlucose, readings))
}

func TestAggregate_BloodPressureSecondaryAverage(t *testing.T) {
	readings := []domain.Reading{
		reading(1, domain.MetricBloodPressure, 150, 30),
		reading(2, domain.MetricBloodPressure, 140, 20),
		reading(3, domain.MetricBloodPressure, 130, 10),
	}
	readings[0].SecondaryValue = ptr(95)
	readings[1].SecondaryValue = ptr(85)

	summary := Aggregate(domain.MetricBloodPressure, readings)

	require.NotNil(t, summary.SecondaryAverage)
	assert.InDelta(t, 90, *summary.SecondaryAverage, 1e-9)
	require.NotNil(t, summary.Category)
	assert.Equal(t, guidelines.BPStage2, summary.Category.Status)
	assert.Equal(t, domain.TrendDecreasing, summary.Trend)
	require.NotNil(t, summary.InTargetFraction)
	assert.Equal(t, 0.0, *summary.InTargetFraction)
}

func TestAggregate_UntabledMetricHasNoCategory(t *testing.T) {
	summary := Aggregate(domain.MetricWaterML, repeat(domain.MetricWaterML, 3, 500))

	assert.True(t, summary.HasData)
	assert.InDelta(t, 1500, summary.Total, 1e-9)
	assert.Nil(t, summary.Category)
	assert.Nil(t, summary.InTargetFraction)
}

func TestDietConsistency(t *testing.T) {
	tests := []struct {
		meals  int
		rating string
		score  int
	}{
		{0, RatingNoData, 0},
		{3, RatingNeedsImprovement, 30},
		{7, RatingFair, 50},
		{11, RatingGood, 70},
		{15, RatingExcellent, 90},
		{30, RatingExcellent, 90},
	}

	for _, tt := range tests {
		score := DietConsistency(repeat(domain.MetricFoodCalories, tt.meals, 400))
		assert.Equal(t, tt.rating, score.Rating, "meals %d", tt.meals)
		assert.Equal(t, tt.score, score.Score, "meals %d", tt.meals)
		assert.LessOrEqual(t, score.Percentage, 100.0)
	}

	score := DietConsistency(repeat(domain.MetricFoodCalories, 4, 500))
	assert.Equal(t, 4, score.MealsLogged)
	assert.InDelta(t, 2000, score.TotalCalories, 1e-9)
	assert.InDelta(t, 500, score.AvgCalories, 1e-9)
}

func TestExerciseConsistency(t *testing.T) {
	excellent := ExerciseConsistency([]domain.Reading{
		reading(1, domain.MetricActivityMinutes, 100, 48),
		reading(2, domain.MetricActivityMinutes, 50, 24),
	})
	assert.Equal(t, RatingExcellent, excellent.Rating)
	assert.Equal(t, 100, excellent.Score)
	assert.Equal(t, 2, excellent.Sessions)

	good := ExerciseConsistency([]domain.Reading{reading(1, domain.MetricActivityMinutes, 149, 24)})
	assert.Equal(t, RatingGood, good.Rating)
	assert.Equal(t, 80, good.Score)

	over := ExerciseConsistency([]domain.Reading{reading(1, domain.MetricActivityMinutes, 600, 24)})
	assert.Equal(t, 100.0, over.Percentage)

	none := ExerciseConsistency(nil)
	assert.Equal(t, RatingNoData, none.Rating)
	assert.Equal(t, 0, none.Score)
	assert.Equal(t, guidelines.ActivityMinutesPerWeek, none.TargetMinutes)
}

func TestMedicationAdherence(t *testing.T) {
	none := MedicationAdherence(0, nil)
	assert.Equal(t, 100, none.Score)
	assert.Equal(t, 100.0, none.Percentage)
	assert.Equal(t, RatingNoMedications, none.Rating)

	excellent := MedicationAdherence(2, repeat(domain.MetricMedicationIntake, 13, 1))
	assert.Equal(t, 14, excellent.ExpectedDoses)
	assert.Equal(t, 13, excellent.TakenDoses)
	assert.Equal(t, RatingExcellent, excellent.Rating)
	assert.Equal(t, 95, excellent.Score)

	fair := MedicationAdherence(2, repeat(domain.MetricMedicationIntake, 10, 1))
	assert.Equal(t, RatingFair, fair.Rating)
	assert.Equal(t, 50, fair.Score)

	capped := MedicationAdherence(1, repeat(domain.MetricMedicationIntake, 20, 1))
	assert.Equal(t, 100.0, capped.Percentage)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, ClampPercent(-3))
	assert.Equal(t, 55.5, ClampPercent(55.5))
	assert.Equal(t, 100.0, ClampPercent(250))
}
