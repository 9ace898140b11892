package domain

import (
	"time"
)

// MetricType identifies what a Reading measures
type MetricType string

const (
	MetricGlucose          MetricType = "glucose"
	MetricBloodPressure    MetricType = "blood_pressure"
	MetricFoodCalories     MetricType = "food_calories"
	MetricActivityMinutes  MetricType = "activity_minutes"
	MetricWaterML          MetricType = "water_ml"
	MetricMedicationIntake MetricType = "medication_intake"
	MetricHbA1c            MetricType = "hba1c"
)

// AllMetricTypes lists every metric a Reading may carry
var AllMetricTypes = []MetricType{
	MetricGlucose,
	MetricBloodPressure,
	MetricFoodCalories,
	MetricActivityMinutes,
	MetricWaterML,
	MetricMedicationIntake,
	MetricHbA1c,
}

// Valid reports whether m is one of the known metric types
func (m MetricType) Valid() bool {
	for _, known := range AllMetricTypes {
		if m == known {
			return true
		}
	}
	return false
}

// DefaultUnit returns the informational unit used when a caller supplies none
func (m MetricType) DefaultUnit() string {
	switch m {
	case MetricGlucose:
		return "mg/dL"
	case MetricBloodPressure:
		return "mmHg"
	case MetricFoodCalories:
		return "kcal"
	case MetricActivityMinutes:
		return "min"
	case MetricWaterML:
		return "ml"
	case MetricMedicationIntake:
		return "dose"
	case MetricHbA1c:
		return "%"
	default:
		return ""
	}
}

// Reading contexts for glucose measurements
const (
	ContextFasting   = "fasting"
	ContextAfterMeal = "after_meal"
)

// Disease is a chronic condition a user manages
type Disease string

const (
	DiseaseDiabetes     Disease = "diabetes"
	DiseaseHypertension Disease = "hypertension"
	DiseaseHeart        Disease = "heart_disease"
)

// Condition selects the nutrition estimator variant
type Condition string

const (
	ConditionDiabetes     Condition = "diabetes"
	ConditionHypertension Condition = "hypertension"
)

// User represents a person tracking their health
type User struct {
	ID         uint      `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	TelegramID int64     `json:"telegram_id,omitempty"`
	Username   string    `json:"username,omitempty"`
	Name       string    `json:"name"`
	Diseases   []Disease `json:"diseases"`
}

// HasDisease reports whether the user manages the given condition
func (u *User) HasDisease(d Disease) bool {
	for _, existing := range u.Diseases {
		if existing == d {
			return true
		}
	}
	return false
}

// Reading is one logged measurement. Readings are immutable once stored.
type Reading struct {
	ID             uint       `json:"id"`
	UserID         uint       `json:"user_id"`
	MetricType     MetricType `json:"metric_type"`
	PrimaryValue   float64    `json:"primary_value"`
	SecondaryValue *float64   `json:"secondary_value,omitempty"` // diastolic for blood pressure
	Unit           string     `json:"unit"`
	Context        string     `json:"context,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Timestamp      time.Time  `json:"timestamp"`
	LogDate        time.Time  `json:"log_date"` // calendar day used for every date-range query
}

// Medication is a prescribed drug. Inactive medications are kept, never deleted.
type Medication struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"`
	Times     []string  `json:"times"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// FoodPropertyRecord holds per-serving nutrition for one food
type FoodPropertyRecord struct {
	Name          string
	Calories      float64
	Carbohydrates float64
	Sugar         float64
	Fiber         float64
	Protein       float64
	GlycemicIndex float64
}

// Severity grades how urgently a band needs attention
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityCaution  Severity = "caution"
	SeverityWarning  Severity = "warning"
	SeverityElevated Severity = "elevated"
	SeverityCritical Severity = "critical"
)

// GuidelineRange is one clinical threshold band. Lower is inclusive, Upper is
// exclusive unless UpperInclusive is set; nil bounds are open-ended.
type GuidelineRange struct {
	MetricType     MetricType
	Band           string
	Lower          *float64
	Upper          *float64
	UpperInclusive bool
	Severity       Severity
	Advisory       string
}

// Contains reports whether v falls inside the band
func (g GuidelineRange) Contains(v float64) bool {
	if g.Lower != nil && !(v >= *g.Lower) {
		return false
	}
	if g.Upper != nil {
		if g.UpperInclusive {
			return v <= *g.Upper
		}
		return v < *g.Upper
	}
	return true
}

// ClassificationResult is the outcome of classifying one reading
type ClassificationResult struct {
	MetricType MetricType `json:"metric_type"`
	Status     string     `json:"status"`
	Severity   Severity   `json:"severity"`
	Advisory   string     `json:"advisory"`
}

// TrendLabel is the direction of a series over a window
type TrendLabel string

const (
	TrendIncreasing       TrendLabel = "increasing"
	TrendDecreasing       TrendLabel = "decreasing"
	TrendStable           TrendLabel = "stable"
	TrendInsufficientData TrendLabel = "insufficient_data"
)

// WeeklySummary aggregates one metric over a trailing window. It is derived
// on every request and never persisted.
type WeeklySummary struct {
	MetricType       MetricType            `json:"metric_type"`
	WindowDays       int                   `json:"window_days"`
	HasData          bool                  `json:"has_data"`
	Count            int                   `json:"count"`
	Total            float64               `json:"total"`
	Average          float64               `json:"average"`
	Min              float64               `json:"min"`
	Max              float64               `json:"max"`
	SecondaryAverage *float64              `json:"secondary_average,omitempty"`
	Trend            TrendLabel            `json:"trend"`
	InTargetFraction *float64              `json:"in_target_fraction,omitempty"`
	Category         *ClassificationResult `json:"category,omitempty"`
}

// ScoreCard is a tiered rating derived from a percentage
type ScoreCard struct {
	Score      int     `json:"score"`
	Rating     string  `json:"rating"`
	Percentage float64 `json:"percentage"`
}

// DietScore rates how consistently meals were logged
type DietScore struct {
	ScoreCard
	MealsLogged   int     `json:"meals_logged"`
	TotalCalories float64 `json:"total_calories"`
	AvgCalories   float64 `json:"avg_calories"`
}

// ExerciseScore rates weekly activity minutes against the guideline target
type ExerciseScore struct {
	ScoreCard
	TotalMinutes  float64 `json:"total_minutes"`
	TargetMinutes float64 `json:"target_minutes"`
	Sessions      int     `json:"sessions"`
}

// MedicationScore rates doses taken against doses expected
type MedicationScore struct {
	ScoreCard
	ExpectedDoses int `json:"expected_doses"`
	TakenDoses    int `json:"taken_doses"`
}

// AdjustmentCategory groups care plan adjustments
type AdjustmentCategory string

const (
	AdjustmentDiet     AdjustmentCategory = "diet"
	AdjustmentActivity AdjustmentCategory = "activity"
	AdjustmentWellness AdjustmentCategory = "wellness"
)

// CarePlanAdjustment is one recommended change to the care plan
type CarePlanAdjustment struct {
	Category AdjustmentCategory `json:"category"`
	Action   string             `json:"action"`
	Reason   string             `json:"reason"`
}

// AdjustmentPlan is the ordered result of the adjustment rules
type AdjustmentPlan struct {
	WeekOf      time.Time            `json:"week_of"`
	Adjustments []CarePlanAdjustment `json:"adjustments"`
	Message     string               `json:"message"`
}

// NutritionTotals are the aggregated nutrients of a described meal
type NutritionTotals struct {
	Calories      float64  `json:"calories"`
	Carbohydrates float64  `json:"carbohydrates_g"`
	Sugar         float64  `json:"sugar_g"`
	Fiber         float64  `json:"fiber_g"`
	Protein       float64  `json:"protein_g"`
	GlycemicIndex float64  `json:"glycemic_index"`
	GlycemicLoad  float64  `json:"glycemic_load"`
	NetCarbs      float64  `json:"net_carbs_g"`
	SodiumMg      float64  `json:"sodium_mg"`
	MatchedFoods  []string `json:"matched_foods"`
	Multiplier    float64  `json:"multiplier"`
	LowConfidence bool     `json:"low_confidence"`
}

// GlucoseSpikeRisk scores how strongly a meal may raise blood glucose
type GlucoseSpikeRisk struct {
	Level   string   `json:"level"`
	Score   int      `json:"score"`
	Factors []string `json:"factors"`
}

// MealSuitability is the diabetes suitability verdict for a meal
type MealSuitability struct {
	IsSuitable   bool     `json:"is_suitable"`
	Rating       string   `json:"rating"`
	Positives    []string `json:"positives"`
	Improvements []string `json:"improvements"`
}

// SodiumAssessment is the hypertension verdict for a meal
type SodiumAssessment struct {
	Level         string   `json:"sodium_level"`
	SodiumMg      float64  `json:"sodium_mg"`
	DASHCompliant bool     `json:"dash_compliant"`
	Notes         []string `json:"notes"`
}

// FoodAnalysis is the full result of analyzing a described meal
type FoodAnalysis struct {
	Description string            `json:"food_description"`
	Quantity    string            `json:"quantity"`
	Condition   Condition         `json:"condition"`
	Source      string            `json:"source"`
	Nutrition   NutritionTotals   `json:"nutrition"`
	SpikeRisk   *GlucoseSpikeRisk `json:"glucose_spike_risk,omitempty"`
	Suitability *MealSuitability  `json:"meal_suitability,omitempty"`
	Sodium      *SodiumAssessment `json:"sodium,omitempty"`
	Disclaimer  string            `json:"disclaimer"`
}
