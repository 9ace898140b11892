package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
	"github.com/vladimiradmaev/care-planner/internal/utils"
)

// MedicationInput describes a new prescription
type MedicationInput struct {
	Name      string   `json:"name"`
	Dosage    string   `json:"dosage"`
	Frequency string   `json:"frequency"`
	Times     []string `json:"times"` // HH:MM
}

type MedicationService struct {
	meds    domain.MedicationStore
	logs    domain.LogStore
	loc     *time.Location
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewMedicationService(meds domain.MedicationStore, logs domain.LogStore, loc *time.Location, m *metrics.Metrics) *MedicationService {
	if loc == nil {
		loc = time.UTC
	}
	return &MedicationService{meds: meds, logs: logs, loc: loc, metrics: m, now: time.Now}
}

func (s *MedicationService) Create(ctx context.Context, userID uint, in MedicationInput) (*domain.Medication, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("medication name is required")
	}
	times, err := normalizeTimes(in.Times)
	if err != nil {
		return nil, err
	}

	med := &domain.Medication{
		UserID:    userID,
		Name:      name,
		Dosage:    strings.TrimSpace(in.Dosage),
		Frequency: strings.TrimSpace(in.Frequency),
		Times:     times,
	}
	if err := s.meds.CreateMedication(ctx, med); err != nil {
		return nil, err
	}
	logger.WithContext(ctx).Info("Medication added", "user_id", userID, "medication_id", med.ID)
	return med, nil
}

// normalizeTimes validates HH:MM reminder times, drops duplicates and sorts
// them by time of day
func normalizeTimes(times []string) ([]string, error) {
	seen := make(map[string]bool, len(times))
	out := make([]string, 0, len(times))
	for _, raw := range times {
		t := strings.TrimSpace(raw)
		parsed, err := time.Parse("15:04", t)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", raw))
		}
		t = parsed.Format("15:04")
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return utils.TimeToMinutes(out[i]) < utils.TimeToMinutes(out[j])
	})
	return out, nil
}

func (s *MedicationService) ListActive(ctx context.Context, userID uint) ([]domain.Medication, error) {
	return s.meds.ListActiveMedications(ctx, userID)
}

// Deactivate hides a medication from the active list; its intake history stays
func (s *MedicationService) Deactivate(ctx context.Context, userID, medicationID uint) error {
	if err := s.meds.DeactivateMedication(ctx, userID, medicationID); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("Medication deactivated", "user_id", userID, "medication_id", medicationID)
	return nil
}

// LogIntake records one dose of an active medication as a medication_intake reading
func (s *MedicationService) LogIntake(ctx context.Context, userID, medicationID uint) (*domain.Reading, error) {
	med, err := s.meds.GetMedication(ctx, userID, medicationID)
	if err != nil {
		return nil, err
	}
	if !med.Active {
		return nil, apperrors.NewValidationError("medication is no longer active").
			WithContext("medication_id", medicationID)
	}

	now := s.now()
	reading := domain.Reading{
		UserID:       userID,
		MetricType:   domain.MetricMedicationIntake,
		PrimaryValue: 1,
		Unit:         domain.MetricMedicationIntake.DefaultUnit(),
		Context:      strconv.FormatUint(uint64(med.ID), 10),
		Notes:        med.Name,
		Timestamp:    now,
		LogDate:      utils.LogDate(now, s.loc),
	}
	if err := s.logs.SaveReading(ctx, &reading); err != nil {
		return nil, err
	}
	s.metrics.ReadingLogged(string(reading.MetricType), false)
	return &reading, nil
}
