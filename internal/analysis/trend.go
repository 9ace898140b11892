package analysis

import (
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/guidelines"
)

const minTrendValues = 3

// ComputeTrend labels a chronological (oldest first) series using the
// glucose-scale delta
func ComputeTrend(values []float64) domain.TrendLabel {
	return TrendWithDelta(values, guidelines.TrendDeltaGlucose)
}

// ComputeTrendFor labels a series with the delta that fits the metric's scale
func ComputeTrendFor(metric domain.MetricType, values []float64) domain.TrendLabel {
	return TrendWithDelta(values, TrendDelta(metric))
}

// TrendDelta is the absolute change between half-means that counts as movement
func TrendDelta(metric domain.MetricType) float64 {
	if metric == domain.MetricBloodPressure {
		return guidelines.TrendDeltaBloodPressure
	}
	return guidelines.TrendDeltaGlucose
}

// TrendWithDelta compares the mean of values[:n/2] with the mean of
// values[n/2:]. For odd n the first half is the shorter one.
// TODO: the floor split weights odd-length series toward the later half; revisit once product confirms the intended boundary.
func TrendWithDelta(values []float64, delta float64) domain.TrendLabel {
	n := len(values)
	if n < minTrendValues {
		return domain.TrendInsufficientData
	}

	mid := n / 2
	diff := mean(values[mid:]) - mean(values[:mid])

	switch {
	case diff > delta:
		return domain.TrendIncreasing
	case diff < -delta:
		return domain.TrendDecreasing
	default:
		return domain.TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
