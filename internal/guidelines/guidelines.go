// Package guidelines holds the static clinical reference tables (ADA/AHA)
// used to classify readings. The tables are data only.
package guidelines

import (
	"github.com/vladimiradmaev/care-planner/internal/domain"
)

// Version identifies the threshold tables in use
const Version = "2024.1"

// Glucose status bands
const (
	GlucoseCriticalLow  = "critical_low"
	GlucoseLow          = "low"
	GlucoseNormal       = "normal"
	GlucoseElevated     = "elevated"
	GlucoseCriticalHigh = "critical_high"
)

// Blood pressure categories, ordered by severity
const (
	BPNormal     = "normal"
	BPElevated   = "elevated"
	BPStage1     = "stage1"
	BPStage2     = "stage2"
	BPCrisis     = "hypertensive_crisis"
	bpCrisisSys  = 180
	bpCrisisDia  = 120
	bpStage2Sys  = 140
	bpStage2Dia  = 90
	bpStage1Sys  = 130
	bpStage1Dia  = 80
	bpElevateSys = 120
)

// HbA1c bands
const (
	HbA1cNormal      = "normal"
	HbA1cPrediabetes = "prediabetes"
	HbA1cGoodControl = "good_control"
	HbA1cAboveTarget = "above_target"
	HbA1cHigh        = "high"
)

// Glycemic index bands
const (
	GILow    = 55
	GIMedium = 70
)

// Targets shared by the aggregator and the adjustment rules
const (
	FastingTargetMin      = 80.0
	FastingTargetMax      = 130.0
	AfterMealTargetMax    = 180.0
	HypoglycemiaLevel1    = 70.0
	HypoglycemiaLevel2    = 54.0
	GlucoseCriticalHighAt = 250.0

	ActivityMinutesPerWeek = 150.0
	MealsPerWeek           = 21.0
	WaterTargetML          = 2500.0
	HbA1cTestIntervalDays  = 90

	TrendDeltaGlucose       = 10.0
	TrendDeltaBloodPressure = 5.0
)

// Citations for the tables above
const (
	CitationADA          = "American Diabetes Association. Standards of Medical Care in Diabetes-2024. Diabetes Care 2024;47(Suppl 1)"
	CitationAHA          = "American Heart Association. Understanding Blood Pressure Readings. 2024"
	CitationAHAActivity  = "American Heart Association. Recommendations for Physical Activity in Adults. 2024"
	CitationAHALifestyle = "American Heart Association. Diet and Lifestyle Recommendations. 2024"
)

func bound(v float64) *float64 { return &v }

// glucoseBands builds the five glucose bands around a context-specific target
func glucoseBands(lowAt, normalAt, elevatedAt float64, normalInclusive bool, target string) []domain.GuidelineRange {
	return []domain.GuidelineRange{
		{
			MetricType: domain.MetricGlucose,
			Band:       GlucoseCriticalLow,
			Upper:      bound(lowAt),
			Severity:   domain.SeverityCritical,
			Advisory:   "Severe hypoglycemia. Consume fast-acting glucose immediately and contact your healthcare provider.",
		},
		{
			MetricType: domain.MetricGlucose,
			Band:       GlucoseLow,
			Lower:      bound(lowAt),
			Upper:      bound(normalAt),
			Severity:   domain.SeverityWarning,
			Advisory:   "Below target range. Consider a small snack and monitor for hypoglycemia symptoms.",
		},
		{
			MetricType:     domain.MetricGlucose,
			Band:           GlucoseNormal,
			Lower:          bound(normalAt),
			Upper:          bound(elevatedAt),
			UpperInclusive: normalInclusive,
			Severity:       domain.SeverityNormal,
			Advisory:       "Within target range (" + target + "). Keep up the good work!",
		},
		{
			MetricType: domain.MetricGlucose,
			Band:       GlucoseElevated,
			Lower:      bound(elevatedAt),
			Upper:      bound(GlucoseCriticalHighAt),
			Severity:   domain.SeverityElevated,
			Advisory:   "Above target range. Review diet and medication and increase physical activity.",
		},
		{
			MetricType: domain.MetricGlucose,
			Band:       GlucoseCriticalHigh,
			Lower:      bound(GlucoseCriticalHighAt),
			Severity:   domain.SeverityCritical,
			Advisory:   "Very high blood sugar. Contact your healthcare provider.",
		},
	}
}

var (
	glucoseGeneric   = glucoseBands(HypoglycemiaLevel2, HypoglycemiaLevel1, AfterMealTargetMax, false, "70-179 mg/dL")
	glucoseFasting   = glucoseBands(HypoglycemiaLevel2, FastingTargetMin, FastingTargetMax, true, "80-130 mg/dL")
	glucoseAfterMeal = glucoseBands(HypoglycemiaLevel2, HypoglycemiaLevel1, AfterMealTargetMax, true, "<=180 mg/dL")
)

// GlucoseBands returns the band table for a reading context. An empty or
// unknown context gets the generic, widest target band.
func GlucoseBands(context string) []domain.GuidelineRange {
	switch context {
	case domain.ContextFasting:
		return glucoseFasting
	case domain.ContextAfterMeal:
		return glucoseAfterMeal
	default:
		return glucoseGeneric
	}
}

var hba1cBands = []domain.GuidelineRange{
	{
		MetricType: domain.MetricHbA1c,
		Band:       HbA1cNormal,
		Upper:      bound(5.7),
		Severity:   domain.SeverityNormal,
		Advisory:   "Normal range. Excellent blood sugar control!",
	},
	{
		MetricType: domain.MetricHbA1c,
		Band:       HbA1cPrediabetes,
		Lower:      bound(5.7),
		Upper:      bound(6.5),
		Severity:   domain.SeverityCaution,
		Advisory:   "Prediabetes range (5.7-6.4%). Consider lifestyle modifications.",
	},
	{
		MetricType: domain.MetricHbA1c,
		Band:       HbA1cGoodControl,
		Lower:      bound(6.5),
		Upper:      bound(7.0),
		Severity:   domain.SeverityNormal,
		Advisory:   "Good control for most adults with diabetes. Target is below 7%.",
	},
	{
		MetricType: domain.MetricHbA1c,
		Band:       HbA1cAboveTarget,
		Lower:      bound(7.0),
		Upper:      bound(8.0),
		Severity:   domain.SeverityWarning,
		Advisory:   "Above target. Discuss optimizing your care plan with your doctor.",
	},
	{
		MetricType: domain.MetricHbA1c,
		Band:       HbA1cHigh,
		Lower:      bound(8.0),
		Severity:   domain.SeverityElevated,
		Advisory:   "Above 8%. Consult your healthcare provider about adjusting treatment.",
	},
}

// HbA1cBands returns the fixed HbA1c breakpoints
func HbA1cBands() []domain.GuidelineRange {
	return hba1cBands
}

// BPRule is one blood pressure category. A reading matches when systolic or
// diastolic reaches the rule's threshold; a nil threshold never matches.
type BPRule struct {
	Category    string
	MinSystolic *float64
	MinDia      *float64
	Severity    domain.Severity
	Description string
	Advisory    string
}

// Matches reports whether the reading reaches this category
func (r BPRule) Matches(systolic, diastolic float64) bool {
	if r.MinSystolic == nil && r.MinDia == nil {
		return true
	}
	if r.MinSystolic != nil && systolic >= *r.MinSystolic {
		return true
	}
	return r.MinDia != nil && diastolic >= *r.MinDia
}

// bpRules is ordered from most to least severe; the first match wins
var bpRules = []BPRule{
	{
		Category:    BPCrisis,
		MinSystolic: bound(bpCrisisSys),
		MinDia:      bound(bpCrisisDia),
		Severity:    domain.SeverityCritical,
		Description: "Hypertensive Crisis",
		Advisory:    "Blood pressure is dangerously high. Seek immediate medical attention.",
	},
	{
		Category:    BPStage2,
		MinSystolic: bound(bpStage2Sys),
		MinDia:      bound(bpStage2Dia),
		Severity:    domain.SeverityElevated,
		Description: "Stage 2 Hypertension",
		Advisory:    "Lifestyle modifications and medication. Contact your provider about management.",
	},
	{
		Category:    BPStage1,
		MinSystolic: bound(bpStage1Sys),
		MinDia:      bound(bpStage1Dia),
		Severity:    domain.SeverityWarning,
		Description: "Stage 1 Hypertension",
		Advisory:    "Lifestyle modifications; consider medication based on cardiovascular risk.",
	},
	{
		Category:    BPElevated,
		MinSystolic: bound(bpElevateSys),
		Severity:    domain.SeverityCaution,
		Description: "Elevated",
		Advisory:    "Lifestyle modifications; reassess in 3-6 months.",
	},
	{
		Category:    BPNormal,
		Severity:    domain.SeverityNormal,
		Description: "Normal",
		Advisory:    "Maintain a healthy lifestyle.",
	},
}

// BPRules returns the blood pressure categories, most severe first
func BPRules() []BPRule {
	return bpRules
}

// BPSeverityRank orders categories so callers can compare them
func BPSeverityRank(category string) int {
	for i, rule := range bpRules {
		if rule.Category == category {
			return len(bpRules) - i
		}
	}
	return 0
}

// GIBand names the glycemic index band of a value
func GIBand(gi float64) string {
	switch {
	case gi > GIMedium:
		return "high"
	case gi > GILow:
		return "medium"
	default:
		return "low"
	}
}
