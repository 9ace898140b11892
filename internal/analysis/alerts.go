package analysis

import (
	"github.com/vladimiradmaev/care-planner/internal/domain"
)

// Alert thresholds checked when a reading is logged
const (
	alertGlucoseCriticalLow  = 54.0
	alertGlucoseLow          = 70.0
	alertGlucoseHigh         = 180.0
	alertGlucoseCriticalHigh = 250.0

	alertSystolicCrisis  = 180.0
	alertDiastolicCrisis = 120.0
	alertSystolicHigh    = 140.0
	alertDiastolicHigh   = 90.0
	alertSystolicLow     = 90.0
	alertDiastolicLow    = 60.0
)

// GlucoseAlert returns the alert text for a glucose value, or "" when none applies
func GlucoseAlert(value float64) string {
	switch {
	case value <= alertGlucoseCriticalLow:
		return "CRITICAL: Severe hypoglycemia! Consume fast-acting glucose immediately and contact your healthcare provider."
	case value >= alertGlucoseCriticalHigh:
		return "CRITICAL: Very high blood sugar! Consider contacting your healthcare provider."
	case value <= alertGlucoseLow:
		return "Low blood sugar detected. Consider having a small snack."
	case value >= alertGlucoseHigh:
		return "Elevated blood sugar. Monitor closely and follow your care plan."
	}
	return ""
}

// BloodPressureAlert returns the alert text for a reading, or "" when none applies.
// Crisis is checked first, then low pressure, then high.
func BloodPressureAlert(systolic, diastolic float64) string {
	switch {
	case systolic >= alertSystolicCrisis || diastolic >= alertDiastolicCrisis:
		return "CRITICAL: Blood pressure is dangerously high! Seek immediate medical attention."
	case systolic <= alertSystolicLow || diastolic <= alertDiastolicLow:
		return "Low blood pressure detected. Sit down, drink water, and monitor symptoms."
	case systolic >= alertSystolicHigh || diastolic >= alertDiastolicHigh:
		return "Elevated blood pressure. Rest and re-check in 15 minutes. Contact your provider if it persists."
	}
	return ""
}

// ReadingAlert dispatches to the metric-specific alert check
func ReadingAlert(r domain.Reading) string {
	switch r.MetricType {
	case domain.MetricGlucose:
		return GlucoseAlert(r.PrimaryValue)
	case domain.MetricBloodPressure:
		var diastolic float64
		if r.SecondaryValue != nil {
			diastolic = *r.SecondaryValue
		} else {
			// without a diastolic value only the systolic checks apply
			diastolic = alertDiastolicLow + 1
		}
		return BloodPressureAlert(r.PrimaryValue, diastolic)
	}
	return ""
}
