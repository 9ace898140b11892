package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
)

// Disclaimer attached to every generated report
const Disclaimer = "These recommendations are supportive only and not medical advice. Always consult your healthcare provider for treatment decisions."

// WeeklyReport combines the weekly scores with suggestions
type WeeklyReport struct {
	WeekOf      time.Time              `json:"week_of"`
	Diet        domain.DietScore       `json:"diet"`
	Exercise    domain.ExerciseScore   `json:"exercise"`
	Medication  domain.MedicationScore `json:"medication_adherence"`
	BloodSugar  domain.WeeklySummary   `json:"blood_sugar"`
	Suggestions []string               `json:"suggestions"`
	Disclaimer  string                 `json:"disclaimer"`
}

// WeeklyInput carries one week of readings for a user
type WeeklyInput struct {
	Readings          []domain.Reading
	ActiveMedications int
	Now               time.Time
}

// BuildWeeklyReport scores one week of readings
func BuildWeeklyReport(in WeeklyInput) WeeklyReport {
	report := WeeklyReport{
		WeekOf:     in.Now,
		Diet:       DietConsistency(in.Readings),
		Exercise:   ExerciseConsistency(in.Readings),
		Medication: MedicationAdherence(in.ActiveMedications, in.Readings),
		BloodSugar: Aggregate(domain.MetricGlucose, in.Readings),
		Disclaimer: Disclaimer,
	}
	report.Suggestions = ImprovementSuggestions(report.Diet, report.Exercise, report.Medication, report.BloodSugar)
	return report
}

// ImprovementSuggestions turns weekly scores into short, actionable tips
func ImprovementSuggestions(diet domain.DietScore, exercise domain.ExerciseScore, medication domain.MedicationScore, glucose domain.WeeklySummary) []string {
	var suggestions []string

	if diet.Score < 50 {
		suggestions = append(suggestions, "Try logging your meals more consistently to better track your diet patterns.")
	}

	switch {
	case exercise.Score < 60:
		if remaining := exercise.TargetMinutes - exercise.TotalMinutes; remaining > 0 {
			suggestions = append(suggestions, fmt.Sprintf("You're %.0f minutes short of your weekly exercise goal. Try adding a 10-minute walk after meals.", math.Round(remaining)))
		}
	case exercise.Score >= 100:
		suggestions = append(suggestions, "Great job meeting your exercise goal! Keep up the excellent work.")
	}

	if medication.Percentage < 90 {
		suggestions = append(suggestions, "Your medication adherence could improve. Try setting phone reminders for medication times.")
	}

	switch glucose.Trend {
	case domain.TrendIncreasing:
		suggestions = append(suggestions, "Your blood sugar trend is showing an increase. Review your recent diet and activity, and consult your doctor if this continues.")
	case domain.TrendDecreasing:
		suggestions = append(suggestions, "Your blood sugar control is improving! Keep following your care plan.")
	}

	if glucose.HasData && glucose.InTargetFraction != nil && *glucose.InTargetFraction < 0.7 {
		suggestions = append(suggestions, "Try to keep more readings in the target range by maintaining consistent meal times and portions.")
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, "You're doing well overall! Continue following your care plan.")
	}
	return suggestions
}

// ActivitySummary compares weekly activity with the guideline target
type ActivitySummary struct {
	TotalMinutes  float64 `json:"total_minutes"`
	TargetMinutes float64 `json:"target_minutes"`
	OnTrack       bool    `json:"on_track"`
	Citation      string  `json:"citation"`
}

// SummarizeActivity totals activity minutes in the readings
func SummarizeActivity(readings []domain.Reading) ActivitySummary {
	var total float64
	for _, r := range FilterMetric(readings, domain.MetricActivityMinutes) {
		total += r.PrimaryValue
	}
	return ActivitySummary{
		TotalMinutes:  total,
		TargetMinutes: guidelines.ActivityMinutesPerWeek,
		OnTrack:       total >= guidelines.ActivityMinutesPerWeek,
		Citation:      guidelines.CitationAHAActivity,
	}
}

// WaterProgress is today's water intake against the daily target
type WaterProgress struct {
	TotalML     float64 `json:"total_ml"`
	Glasses     int     `json:"glasses"`
	TargetML    float64 `json:"target_ml"`
	Percentage  float64 `json:"percentage"`
	RemainingML float64 `json:"remaining_ml"`
}

// SummarizeWater totals water readings; percentage is not capped so
// over-drinking stays visible
func SummarizeWater(readings []domain.Reading) WaterProgress {
	water := FilterMetric(readings, domain.MetricWaterML)
	var total float64
	for _, r := range water {
		total += r.PrimaryValue
	}
	return WaterProgress{
		TotalML:     total,
		Glasses:     len(water),
		TargetML:    guidelines.WaterTargetML,
		Percentage:  math.Round(total / guidelines.WaterTargetML * 100),
		RemainingML: math.Max(0, guidelines.WaterTargetML-total),
	}
}

// HbA1cStatus is the latest HbA1c result with a retest reminder
type HbA1cStatus struct {
	Last           *domain.Reading              `json:"last_result,omitempty"`
	Classification *domain.ClassificationResult `json:"classification,omitempty"`
	DaysSinceTest  int                          `json:"days_since_test"`
	Reminder       string                       `json:"reminder,omitempty"`
	Target         string                       `json:"target"`
}

// EvaluateHbA1c classifies the last result and flags an overdue test
func EvaluateHbA1c(last *domain.Reading, now time.Time) HbA1cStatus {
	status := HbA1cStatus{Target: "Below 7% for most adults with diabetes (ADA Guidelines)"}
	if last == nil {
		status.Reminder = "No HbA1c records found. This test should be done every 3-6 months."
		return status
	}

	status.Last = last
	if c, err := ClassifyReading(*last); err == nil {
		status.Classification = &c
	}
	status.DaysSinceTest = int(now.Sub(last.LogDate).Hours() / 24)
	if status.DaysSinceTest > guidelines.HbA1cTestIntervalDays {
		status.Reminder = fmt.Sprintf("It's been %d days since your last HbA1c test. Schedule one soon!", status.DaysSinceTest)
	}
	return status
}
