package analysis

import (
	"math"
	"sort"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
)

// WeeklyWindowDays is the trailing window every weekly summary covers
const WeeklyWindowDays = 7

// Ratings shared by every score card
const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingFair             = "Fair"
	RatingNeedsImprovement = "Needs Improvement"
	RatingNoData           = "No data"
	RatingNoMedications    = "No medications"
)

// tier maps a percentage at or above Min to a rating and score
type tier struct {
	Min    float64
	Rating string
	Score  int
}

var (
	dietTiers = []tier{
		{70, RatingExcellent, 90},
		{50, RatingGood, 70},
		{30, RatingFair, 50},
		{math.Inf(-1), RatingNeedsImprovement, 30},
	}
	exerciseTiers = []tier{
		{100, RatingExcellent, 100},
		{75, RatingGood, 80},
		{50, RatingFair, 60},
		{math.Inf(-1), RatingNeedsImprovement, 40},
	}
	adherenceTiers = []tier{
		{90, RatingExcellent, 95},
		{75, RatingGood, 75},
		{50, RatingFair, 50},
		{math.Inf(-1), RatingNeedsImprovement, 30},
	}
)

func rate(tiers []tier, percentage float64) domain.ScoreCard {
	for _, t := range tiers {
		if percentage >= t.Min {
			return domain.ScoreCard{Score: t.Score, Rating: t.Rating, Percentage: percentage}
		}
	}
	last := tiers[len(tiers)-1]
	return domain.ScoreCard{Score: last.Score, Rating: last.Rating, Percentage: percentage}
}

// ClampPercent bounds p to [0,100]; NaN becomes 0
func ClampPercent(p float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// SortReadings returns a copy ordered oldest first. Ties keep log date then ID order.
func SortReadings(readings []domain.Reading) []domain.Reading {
	sorted := make([]domain.Reading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if !a.LogDate.Equal(b.LogDate) {
			return a.LogDate.Before(b.LogDate)
		}
		return a.ID < b.ID
	})
	return sorted
}

// FilterMetric keeps only readings of the given metric
func FilterMetric(readings []domain.Reading, metric domain.MetricType) []domain.Reading {
	var out []domain.Reading
	for _, r := range readings {
		if r.MetricType == metric {
			out = append(out, r)
		}
	}
	return out
}

// Aggregate summarizes the readings of one metric. Readings of other metrics
// are ignored and input order does not matter.
func Aggregate(metric domain.MetricType, readings []domain.Reading) domain.WeeklySummary {
	summary := domain.WeeklySummary{
		MetricType: metric,
		WindowDays: WeeklyWindowDays,
		Trend:      domain.TrendInsufficientData,
	}

	ordered := SortReadings(FilterMetric(readings, metric))
	if len(ordered) == 0 {
		return summary
	}

	values := make([]float64, len(ordered))
	var secondarySum float64
	var secondaryCount, inTarget int
	summary.Min = math.Inf(1)
	summary.Max = math.Inf(-1)
	for i, r := range ordered {
		v := r.PrimaryValue
		values[i] = v
		summary.Total += v
		summary.Min = math.Min(summary.Min, v)
		summary.Max = math.Max(summary.Max, v)
		if r.SecondaryValue != nil {
			secondarySum += *r.SecondaryValue
			secondaryCount++
		}
		if InTarget(r) {
			inTarget++
		}
	}

	summary.HasData = true
	summary.Count = len(ordered)
	summary.Average = summary.Total / float64(summary.Count)
	summary.Trend = ComputeTrendFor(metric, values)
	if secondaryCount > 0 {
		avg := secondarySum / float64(secondaryCount)
		summary.SecondaryAverage = &avg
	}

	switch metric {
	case domain.MetricGlucose, domain.MetricBloodPressure:
		fraction := float64(inTarget) / float64(summary.Count)
		summary.InTargetFraction = &fraction
	}

	if category, err := Classify(metric, summary.Average, summary.SecondaryAverage, ""); err == nil {
		summary.Category = &category
	}
	return summary
}

// DietConsistency rates meal logging against three meals a day for a week
func DietConsistency(foodReadings []domain.Reading) domain.DietScore {
	meals := FilterMetric(foodReadings, domain.MetricFoodCalories)
	if len(meals) == 0 {
		return domain.DietScore{ScoreCard: domain.ScoreCard{Score: 0, Rating: RatingNoData}}
	}

	var total float64
	for _, m := range meals {
		total += m.PrimaryValue
	}
	consistency := ClampPercent(float64(len(meals)) / guidelines.MealsPerWeek * 100)

	return domain.DietScore{
		ScoreCard:     rate(dietTiers, consistency),
		MealsLogged:   len(meals),
		TotalCalories: total,
		AvgCalories:   total / float64(len(meals)),
	}
}

// ExerciseConsistency rates weekly activity minutes against the 150 minute target
func ExerciseConsistency(activityReadings []domain.Reading) domain.ExerciseScore {
	sessions := FilterMetric(activityReadings, domain.MetricActivityMinutes)
	score := domain.ExerciseScore{TargetMinutes: guidelines.ActivityMinutesPerWeek}
	if len(sessions) == 0 {
		score.ScoreCard = domain.ScoreCard{Score: 0, Rating: RatingNoData}
		return score
	}

	for _, s := range sessions {
		score.TotalMinutes += s.PrimaryValue
	}
	score.Sessions = len(sessions)
	score.ScoreCard = rate(exerciseTiers, ClampPercent(score.TotalMinutes/guidelines.ActivityMinutesPerWeek*100))
	return score
}

// MedicationAdherence rates taken doses against one dose per active
// medication per day. No active medications counts as full adherence.
func MedicationAdherence(activeMedications int, intakeReadings []domain.Reading) domain.MedicationScore {
	var taken int
	for _, r := range FilterMetric(intakeReadings, domain.MetricMedicationIntake) {
		if r.PrimaryValue > 0 {
			taken++
		}
	}

	expected := activeMedications * WeeklyWindowDays
	if expected <= 0 {
		return domain.MedicationScore{
			ScoreCard:  domain.ScoreCard{Score: 100, Rating: RatingNoMedications, Percentage: 100},
			TakenDoses: taken,
		}
	}

	return domain.MedicationScore{
		ScoreCard:     rate(adherenceTiers, ClampPercent(float64(taken)/float64(expected)*100)),
		ExpectedDoses: expected,
		TakenDoses:    taken,
	}
}
