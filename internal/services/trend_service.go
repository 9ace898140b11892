package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vladimiradmaev/care-planner/internal/analysis"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
)

// WeekDays is the trailing window every weekly computation uses
const WeekDays = 7

// TrendReport is the combined weekly view of glucose, blood pressure,
// activity and the resulting care plan adjustments
type TrendReport struct {
	GeneratedAt   time.Time                `json:"generated_at"`
	Glucose       domain.WeeklySummary     `json:"glucose"`
	BloodPressure domain.WeeklySummary     `json:"blood_pressure"`
	Activity      analysis.ActivitySummary `json:"activity"`
	Adjustments   domain.AdjustmentPlan    `json:"adjustments"`
	Disclaimer    string                   `json:"disclaimer"`
}

// TrendService derives every summary from stored readings on each call.
// Nothing it returns is cached.
type TrendService struct {
	logs  domain.LogStore
	meds  domain.MedicationStore
	users domain.UserStore
	now   func() time.Time
}

func NewTrendService(logs domain.LogStore, meds domain.MedicationStore, users domain.UserStore) *TrendService {
	return &TrendService{logs: logs, meds: meds, users: users, now: time.Now}
}

func (s *TrendService) readings(ctx context.Context, userID uint, metric *domain.MetricType, days int, now time.Time) ([]domain.Reading, error) {
	readings, err := s.logs.QueryReadings(ctx, domain.ReadingQuery{
		UserID:       userID,
		MetricType:   metric,
		TrailingDays: days,
		Now:          now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	return readings, nil
}

// WeeklySummary aggregates one metric over the trailing week
func (s *TrendService) WeeklySummary(ctx context.Context, userID uint, metric domain.MetricType) (domain.WeeklySummary, error) {
	if !metric.Valid() {
		return domain.WeeklySummary{}, apperrors.NewValidationError("unknown metric type").WithContext("metric_type", string(metric))
	}
	readings, err := s.readings(ctx, userID, &metric, WeekDays, s.now())
	if err != nil {
		return domain.WeeklySummary{}, err
	}
	return analysis.Aggregate(metric, readings), nil
}

// weekSummaries aggregates every metric of the trailing week from one query
func (s *TrendService) weekSummaries(ctx context.Context, userID uint, now time.Time) ([]domain.Reading, map[domain.MetricType]domain.WeeklySummary, error) {
	readings, err := s.readings(ctx, userID, nil, WeekDays, now)
	if err != nil {
		return nil, nil, err
	}
	summaries := make(map[domain.MetricType]domain.WeeklySummary, len(domain.AllMetricTypes))
	for _, metric := range domain.AllMetricTypes {
		summaries[metric] = analysis.Aggregate(metric, readings)
	}
	return readings, summaries, nil
}

// Adjustments runs the adjustment rules over the user's week
func (s *TrendService) Adjustments(ctx context.Context, userID uint) (domain.AdjustmentPlan, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.AdjustmentPlan{}, err
	}
	now := s.now()
	_, summaries, err := s.weekSummaries(ctx, userID, now)
	if err != nil {
		return domain.AdjustmentPlan{}, err
	}
	return analysis.GenerateAdjustments(user.Diseases, summaries, now), nil
}

// TrendReport combines glucose, blood pressure and activity for the week
func (s *TrendService) TrendReport(ctx context.Context, userID uint) (*TrendReport, error) {
	now := s.now()
	var (
		user      *domain.User
		readings  []domain.Reading
		summaries map[domain.MetricType]domain.WeeklySummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = s.users.GetByID(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		readings, summaries, err = s.weekSummaries(gctx, userID, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TrendReport{
		GeneratedAt:   now,
		Glucose:       summaries[domain.MetricGlucose],
		BloodPressure: summaries[domain.MetricBloodPressure],
		Activity:      analysis.SummarizeActivity(readings),
		Adjustments:   analysis.GenerateAdjustments(user.Diseases, summaries, now),
		Disclaimer:    analysis.Disclaimer,
	}, nil
}

// WeeklyReport scores diet, exercise and medication adherence for the week
func (s *TrendService) WeeklyReport(ctx context.Context, userID uint) (*analysis.WeeklyReport, error) {
	now := s.now()
	var (
		readings []domain.Reading
		meds     []domain.Medication
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		readings, err = s.readings(gctx, userID, nil, WeekDays, now)
		return err
	})
	g.Go(func() (err error) {
		if meds, err = s.meds.ListActiveMedications(gctx, userID); err != nil {
			return fmt.Errorf("failed to list medications: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := analysis.BuildWeeklyReport(analysis.WeeklyInput{
		Readings:          readings,
		ActiveMedications: len(meds),
		Now:               now,
	})
	return &report, nil
}

// HbA1cStatus evaluates the most recent HbA1c result, if any
func (s *TrendService) HbA1cStatus(ctx context.Context, userID uint) (analysis.HbA1cStatus, error) {
	last, err := s.logs.LatestReading(ctx, userID, domain.MetricHbA1c)
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			return analysis.HbA1cStatus{}, fmt.Errorf("failed to get latest HbA1c: %w", err)
		}
		last = nil
	}
	return analysis.EvaluateHbA1c(last, s.now()), nil
}

// WaterToday totals today's water readings
func (s *TrendService) WaterToday(ctx context.Context, userID uint) (analysis.WaterProgress, error) {
	metric := domain.MetricWaterML
	readings, err := s.readings(ctx, userID, &metric, 1, s.now())
	if err != nil {
		return analysis.WaterProgress{}, err
	}
	return analysis.SummarizeWater(readings), nil
}

// CarePlan builds the daily routine for the user's conditions
func (s *TrendService) CarePlan(ctx context.Context, userID uint) (analysis.DailyCarePlan, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return analysis.DailyCarePlan{}, err
	}
	return analysis.BuildDailyCarePlan(user.Diseases, s.now()), nil
}
