package menus

import (
	"fmt"
	"strings"

	"github.com/vladimiradmaev/care-planner/internal/analysis"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

func severityIcon(s domain.Severity) string {
	switch s {
	case domain.SeverityNormal:
		return "✅"
	case domain.SeverityCaution:
		return "🟡"
	case domain.SeverityWarning, domain.SeverityElevated:
		return "🟠"
	case domain.SeverityCritical:
		return "🔴"
	}
	return "ℹ️"
}

func trendText(t domain.TrendLabel) string {
	switch t {
	case domain.TrendIncreasing:
		return "📈 increasing"
	case domain.TrendDecreasing:
		return "📉 decreasing"
	case domain.TrendStable:
		return "➡️ stable"
	}
	return "not enough data yet"
}

// FormatValue renders a reading value with its unit
func FormatValue(r domain.Reading) string {
	if r.MetricType == domain.MetricBloodPressure && r.SecondaryValue != nil {
		return fmt.Sprintf("%.0f/%.0f %s", r.PrimaryValue, *r.SecondaryValue, r.Unit)
	}
	return fmt.Sprintf("%g %s", r.PrimaryValue, r.Unit)
}

// FormatLoggedReading confirms a stored reading
func FormatLoggedReading(l *services.LoggedReading) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Saved %s: %s\n", strings.ReplaceAll(string(l.Reading.MetricType), "_", " "), FormatValue(l.Reading))
	if c := l.Classification; c != nil {
		fmt.Fprintf(&sb, "\n%s %s\n%s\n", severityIcon(c.Severity), strings.ReplaceAll(c.Status, "_", " "), c.Advisory)
	}
	if l.Alert != "" {
		fmt.Fprintf(&sb, "\n⚠️ %s\n", l.Alert)
	}
	return sb.String()
}

// FormatFoodAnalysis renders a meal analysis
func FormatFoodAnalysis(a *domain.FoodAnalysis) string {
	n := a.Nutrition
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽️ %s\n", a.Description)
	if len(n.MatchedFoods) > 0 {
		fmt.Fprintf(&sb, "Recognised: %s\n", strings.Join(n.MatchedFoods, ", "))
	}
	fmt.Fprintf(&sb, "\nCalories: %.0f kcal\nCarbs: %.1f g (net %.1f g)\nSugar: %.1f g\nFiber: %.1f g\nProtein: %.1f g\nGlycemic index: %.0f (load %.1f)\n",
		n.Calories, n.Carbohydrates, n.NetCarbs, n.Sugar, n.Fiber, n.Protein, n.GlycemicIndex, n.GlycemicLoad)

	if r := a.SpikeRisk; r != nil {
		fmt.Fprintf(&sb, "\nGlucose spike risk: %s\n", strings.ToUpper(r.Level))
		for _, f := range r.Factors {
			fmt.Fprintf(&sb, "• %s\n", f)
		}
	}
	if s := a.Suitability; s != nil {
		fmt.Fprintf(&sb, "\nSuitability: %s\n", s.Rating)
		for _, p := range s.Positives {
			fmt.Fprintf(&sb, "👍 %s\n", p)
		}
		for _, i := range s.Improvements {
			fmt.Fprintf(&sb, "💡 %s\n", i)
		}
	}
	if s := a.Sodium; s != nil {
		compliant := "no"
		if s.DASHCompliant {
			compliant = "yes"
		}
		fmt.Fprintf(&sb, "\nSodium: %s (~%.0f mg), DASH compliant: %s\n", s.Level, s.SodiumMg, compliant)
		for _, note := range s.Notes {
			fmt.Fprintf(&sb, "• %s\n", note)
		}
	}
	if n.LowConfidence {
		sb.WriteString("\nI didn't recognise this food, so the numbers are a rough default.\n")
	}
	fmt.Fprintf(&sb, "\n%s", a.Disclaimer)
	return sb.String()
}

func formatSummary(title string, s domain.WeeklySummary) string {
	if !s.HasData {
		return fmt.Sprintf("%s: no readings this week\n", title)
	}
	var sb strings.Builder
	if s.SecondaryAverage != nil {
		fmt.Fprintf(&sb, "%s: avg %.0f/%.0f (min %.0f, max %.0f, %d readings)\n", title, s.Average, *s.SecondaryAverage, s.Min, s.Max, s.Count)
	} else {
		fmt.Fprintf(&sb, "%s: avg %.0f (min %.0f, max %.0f, %d readings)\n", title, s.Average, s.Min, s.Max, s.Count)
	}
	fmt.Fprintf(&sb, "Trend: %s\n", trendText(s.Trend))
	if s.InTargetFraction != nil {
		fmt.Fprintf(&sb, "In target: %.0f%%\n", *s.InTargetFraction*100)
	}
	if s.Category != nil {
		fmt.Fprintf(&sb, "%s %s\n", severityIcon(s.Category.Severity), strings.ReplaceAll(s.Category.Status, "_", " "))
	}
	return sb.String()
}

// FormatAdjustments renders the adjustment plan
func FormatAdjustments(p domain.AdjustmentPlan) string {
	var sb strings.Builder
	sb.WriteString("🔧 Care plan adjustments\n\n")
	for _, a := range p.Adjustments {
		fmt.Fprintf(&sb, "• [%s] %s\n  %s\n", a.Category, a.Action, a.Reason)
	}
	sb.WriteString(p.Message)
	return sb.String()
}

// FormatTrendReport renders the weekly trend report
func FormatTrendReport(r *services.TrendReport) string {
	var sb strings.Builder
	sb.WriteString("📈 Your week\n\n")
	sb.WriteString(formatSummary("🩸 Glucose", r.Glucose))
	sb.WriteString("\n")
	sb.WriteString(formatSummary("❤️ Blood pressure", r.BloodPressure))
	fmt.Fprintf(&sb, "\n🚶 Activity: %.0f of %.0f minutes", r.Activity.TotalMinutes, r.Activity.TargetMinutes)
	if r.Activity.OnTrack {
		sb.WriteString(" ✅")
	}
	sb.WriteString("\n\n")
	sb.WriteString(FormatAdjustments(r.Adjustments))
	fmt.Fprintf(&sb, "\n\n%s", r.Disclaimer)
	return sb.String()
}

func formatScore(name string, s domain.ScoreCard) string {
	return fmt.Sprintf("%s: %d/100 (%s)\n", name, s.Score, s.Rating)
}

// FormatWeeklyReport renders the weekly scores and suggestions
func FormatWeeklyReport(r *analysis.WeeklyReport) string {
	var sb strings.Builder
	sb.WriteString("🗓️ Weekly report\n\n")
	sb.WriteString(formatScore("🍽️ Diet", r.Diet.ScoreCard))
	sb.WriteString(formatScore("🚶 Exercise", r.Exercise.ScoreCard))
	sb.WriteString(formatScore("💊 Medication", r.Medication.ScoreCard))
	sb.WriteString("\n")
	sb.WriteString(formatSummary("🩸 Blood sugar", r.BloodSugar))
	sb.WriteString("\nSuggestions:\n")
	for _, s := range r.Suggestions {
		fmt.Fprintf(&sb, "• %s\n", s)
	}
	fmt.Fprintf(&sb, "\n%s", r.Disclaimer)
	return sb.String()
}

// FormatHbA1c renders the latest HbA1c status
func FormatHbA1c(s analysis.HbA1cStatus) string {
	var sb strings.Builder
	if s.Last != nil {
		fmt.Fprintf(&sb, "🧪 Last HbA1c: %g%% (%d days ago)\n", s.Last.PrimaryValue, s.DaysSinceTest)
		if c := s.Classification; c != nil {
			fmt.Fprintf(&sb, "%s %s\n%s\n", severityIcon(c.Severity), strings.ReplaceAll(c.Status, "_", " "), c.Advisory)
		}
	}
	fmt.Fprintf(&sb, "Target: %s\n", s.Target)
	if s.Reminder != "" {
		fmt.Fprintf(&sb, "\n⏰ %s\n", s.Reminder)
	}
	return sb.String()
}

// FormatWater renders today's water progress
func FormatWater(w analysis.WaterProgress) string {
	text := fmt.Sprintf("💧 Today: %.0f of %.0f ml (%.0f%%)", w.TotalML, w.TargetML, w.Percentage)
	if w.RemainingML > 0 {
		text += fmt.Sprintf("\n%.0f ml to go", w.RemainingML)
	} else {
		text += "\nDaily goal reached 🎉"
	}
	return text
}

// FormatCarePlan renders the daily care plan
func FormatCarePlan(p analysis.DailyCarePlan) string {
	var sb strings.Builder
	sb.WriteString("📋 Today's care plan\n\n")
	for _, t := range p.Tasks {
		fmt.Fprintf(&sb, "%s  %s\n", t.Time, t.Task)
	}
	if len(p.Tips) > 0 {
		sb.WriteString("\nTips:\n")
		for _, tip := range p.Tips {
			fmt.Fprintf(&sb, "• %s\n", tip)
		}
	}
	if len(p.Citations) > 0 {
		sb.WriteString("\nSources:\n")
		for _, c := range p.Citations {
			fmt.Fprintf(&sb, "• %s\n", c)
		}
	}
	return sb.String()
}

// FormatMedications lists active medications
func FormatMedications(meds []domain.Medication) string {
	if len(meds) == 0 {
		return "You have no active medications. Add one with the button below."
	}
	var sb strings.Builder
	sb.WriteString("💊 Active medications\n\n")
	for _, m := range meds {
		fmt.Fprintf(&sb, "• %s %s, %s", m.Name, m.Dosage, m.Frequency)
		if len(m.Times) > 0 {
			fmt.Fprintf(&sb, " at %s", strings.Join(m.Times, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
