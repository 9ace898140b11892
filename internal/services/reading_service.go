package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/vladimiradmaev/care-planner/internal/analysis"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
	"github.com/vladimiradmaev/care-planner/internal/utils"
)

// ReadingInput is one measurement as submitted by a user
type ReadingInput struct {
	MetricType     domain.MetricType `json:"metric_type"`
	PrimaryValue   float64           `json:"primary_value"`
	SecondaryValue *float64          `json:"secondary_value,omitempty"`
	Unit           string            `json:"unit,omitempty"`
	Context        string            `json:"context,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Timestamp      time.Time         `json:"timestamp,omitempty"`
}

// LoggedReading is a stored reading with its classification and alert, if any
type LoggedReading struct {
	Reading        domain.Reading               `json:"reading"`
	Classification *domain.ClassificationResult `json:"classification,omitempty"`
	Alert          string                       `json:"alert,omitempty"`
}

type ReadingService struct {
	logs    domain.LogStore
	loc     *time.Location
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewReadingService(logs domain.LogStore, loc *time.Location, m *metrics.Metrics) *ReadingService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReadingService{logs: logs, loc: loc, metrics: m, now: time.Now}
}

// Log validates and stores a reading, then classifies it where a threshold
// table exists for its metric
func (s *ReadingService) Log(ctx context.Context, userID uint, in ReadingInput) (*LoggedReading, error) {
	if err := validateReading(in); err != nil {
		return nil, err
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = in.MetricType.DefaultUnit()
	}

	reading := domain.Reading{
		UserID:         userID,
		MetricType:     in.MetricType,
		PrimaryValue:   in.PrimaryValue,
		SecondaryValue: in.SecondaryValue,
		Unit:           unit,
		Context:        strings.TrimSpace(in.Context),
		Notes:          strings.TrimSpace(in.Notes),
		Timestamp:      ts,
		LogDate:        utils.LogDate(ts, s.loc),
	}
	if err := s.logs.SaveReading(ctx, &reading); err != nil {
		return nil, err
	}

	result := &LoggedReading{Reading: reading, Alert: analysis.ReadingAlert(reading)}
	if c, err := analysis.ClassifyReading(reading); err == nil {
		result.Classification = &c
	}

	s.metrics.ReadingLogged(string(reading.MetricType), result.Alert != "")
	logger.WithContext(ctx).Info("Reading logged",
		"user_id", userID,
		"metric_type", reading.MetricType,
		"value", reading.PrimaryValue,
		"alert", result.Alert != "")
	return result, nil
}

func validateReading(in ReadingInput) error {
	if !in.MetricType.Valid() {
		return apperrors.NewValidationError("unknown metric type").WithContext("metric_type", string(in.MetricType))
	}
	if !validValue(in.PrimaryValue) {
		return apperrors.NewValidationError("value must be a non-negative number").WithContext("metric_type", string(in.MetricType))
	}
	if in.SecondaryValue != nil {
		if in.MetricType != domain.MetricBloodPressure {
			return apperrors.NewValidationError("secondary value is only recorded for blood pressure")
		}
		if !validValue(*in.SecondaryValue) {
			return apperrors.NewValidationError("diastolic value must be a non-negative number")
		}
	}
	return nil
}

func validValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
