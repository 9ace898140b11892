// Package analysis turns raw readings into statuses, trends, weekly scores
// and care plan adjustments. Every function here is pure.
package analysis

import (
	"math"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
)

// Classify maps one reading onto its threshold table. Any numeric input,
// including NaN or absurd values, resolves to a band.
func Classify(metric domain.MetricType, value float64, secondary *float64, context string) (domain.ClassificationResult, error) {
	switch metric {
	case domain.MetricGlucose:
		return classifyBands(metric, guidelines.GlucoseBands(context), value), nil
	case domain.MetricHbA1c:
		return classifyBands(metric, guidelines.HbA1cBands(), value), nil
	case domain.MetricBloodPressure:
		var diastolic float64
		if secondary != nil {
			diastolic = *secondary
		}
		return ClassifyBloodPressure(value, diastolic), nil
	default:
		return domain.ClassificationResult{}, apperrors.NewUnsupportedMetricError(string(metric))
	}
}

// ClassifyReading classifies a stored reading
func ClassifyReading(r domain.Reading) (domain.ClassificationResult, error) {
	return Classify(r.MetricType, r.PrimaryValue, r.SecondaryValue, r.Context)
}

// ClassifyBloodPressure returns the most severe category the pair reaches.
// A NaN on either side lands in the most severe category.
func ClassifyBloodPressure(systolic, diastolic float64) domain.ClassificationResult {
	rules := guidelines.BPRules()
	if math.IsNaN(systolic) || math.IsNaN(diastolic) {
		return bpResult(rules[0])
	}
	for _, rule := range rules {
		if rule.Matches(systolic, diastolic) {
			return bpResult(rule)
		}
	}
	// the last rule has no thresholds, so this is not reached
	return bpResult(rules[len(rules)-1])
}

func bpResult(rule guidelines.BPRule) domain.ClassificationResult {
	return domain.ClassificationResult{
		MetricType: domain.MetricBloodPressure,
		Status:     rule.Category,
		Severity:   rule.Severity,
		Advisory:   rule.Description + ". " + rule.Advisory,
	}
}

// classifyBands returns the first band containing value. NaN matches no band
// and is reported in the top band so it is never silently treated as normal.
func classifyBands(metric domain.MetricType, bands []domain.GuidelineRange, value float64) domain.ClassificationResult {
	match := bands[len(bands)-1]
	for _, band := range bands {
		if band.Contains(value) {
			match = band
			break
		}
	}
	return domain.ClassificationResult{
		MetricType: metric,
		Status:     match.Band,
		Severity:   match.Severity,
		Advisory:   match.Advisory,
	}
}

// InTarget reports whether a reading sits in the normal band of its table.
// Metrics without a table are never in target.
func InTarget(r domain.Reading) bool {
	result, err := ClassifyReading(r)
	if err != nil {
		return false
	}
	switch r.MetricType {
	case domain.MetricGlucose:
		return result.Status == guidelines.GlucoseNormal
	case domain.MetricBloodPressure:
		return result.Status == guidelines.BPNormal
	default:
		return result.Severity == domain.SeverityNormal
	}
}
