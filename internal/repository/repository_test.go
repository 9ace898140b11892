package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vladimiradmaev/care-planner/internal/database"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func saveReading(t *testing.T, repo *ReadingRepository, userID uint, metric domain.MetricType, value float64, ts time.Time) domain.Reading {
	t.Helper()
	r := domain.Reading{
		UserID:       userID,
		MetricType:   metric,
		PrimaryValue: value,
		Unit:         metric.DefaultUnit(),
		Timestamp:    ts,
		LogDate:      utils.LogDate(ts, time.UTC),
	}
	require.NoError(t, repo.SaveReading(context.Background(), &r))
	require.NotZero(t, r.ID)
	return r
}

func TestMigrate_IsRepeatable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, database.Migrate(db))

	var count int64
	require.NoError(t, db.Table("migration_records").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestReadingRepository_QueryTrailingWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewReadingRepository(db, time.UTC)
	ctx := context.Background()
	now := time.Date(2024, 3, 11, 15, 0, 0, 0, time.UTC)

	saveReading(t, repo, 1, domain.MetricGlucose, 120, now.AddDate(0, 0, -7)) // outside
	inside := saveReading(t, repo, 1, domain.MetricGlucose, 130, now.AddDate(0, 0, -6))
	latest := saveReading(t, repo, 1, domain.MetricGlucose, 110, now.Add(-time.Hour))
	saveReading(t, repo, 1, domain.MetricWaterML, 250, now.Add(-2*time.Hour))
	saveReading(t, repo, 2, domain.MetricGlucose, 200, now.Add(-time.Hour))

	metric := domain.MetricGlucose
	readings, err := repo.QueryReadings(ctx, domain.ReadingQuery{UserID: 1, MetricType: &metric, TrailingDays: 7, Now: now})
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, inside.ID, readings[0].ID)
	assert.Equal(t, latest.ID, readings[1].ID)
	assert.Equal(t, "mg/dL", readings[0].Unit)

	all, err := repo.QueryReadings(ctx, domain.ReadingQuery{UserID: 1, TrailingDays: 1, Now: now})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	everything, err := repo.QueryReadings(ctx, domain.ReadingQuery{UserID: 1})
	require.NoError(t, err)
	assert.Len(t, everything, 4)
}

func TestReadingRepository_SecondaryValueRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewReadingRepository(db, nil)
	ctx := context.Background()

	diastolic := 85.0
	r := domain.Reading{
		UserID:         1,
		MetricType:     domain.MetricBloodPressure,
		PrimaryValue:   135,
		SecondaryValue: &diastolic,
		Timestamp:      time.Now(),
		LogDate:        utils.LogDate(time.Now(), nil),
	}
	require.NoError(t, repo.SaveReading(ctx, &r))

	got, err := repo.LatestReading(ctx, 1, domain.MetricBloodPressure)
	require.NoError(t, err)
	require.NotNil(t, got.SecondaryValue)
	assert.Equal(t, 85.0, *got.SecondaryValue)
}

func TestReadingRepository_LatestReading(t *testing.T) {
	db := newTestDB(t)
	repo := NewReadingRepository(db, time.UTC)
	ctx := context.Background()
	now := time.Now().UTC()

	saveReading(t, repo, 1, domain.MetricHbA1c, 7.2, now.AddDate(0, -4, 0))
	saveReading(t, repo, 1, domain.MetricHbA1c, 6.8, now.AddDate(0, -1, 0))

	got, err := repo.LatestReading(ctx, 1, domain.MetricHbA1c)
	require.NoError(t, err)
	assert.Equal(t, 6.8, got.PrimaryValue)

	_, err = repo.LatestReading(ctx, 2, domain.MetricHbA1c)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestMedicationRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewMedicationRepository(db)
	ctx := context.Background()

	metformin := domain.Medication{UserID: 1, Name: "Metformin", Dosage: "500mg", Frequency: "twice daily", Times: []string{"08:00", "20:00"}}
	require.NoError(t, repo.CreateMedication(ctx, &metformin))
	assert.True(t, metformin.Active)

	amlodipine := domain.Medication{UserID: 1, Name: "Amlodipine", Dosage: "5mg", Frequency: "daily"}
	require.NoError(t, repo.CreateMedication(ctx, &amlodipine))

	active, err := repo.ListActiveMedications(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, []string{"08:00", "20:00"}, active[0].Times)

	require.NoError(t, repo.DeactivateMedication(ctx, 1, amlodipine.ID))

	active, err = repo.ListActiveMedications(ctx, 1)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Metformin", active[0].Name)

	kept, err := repo.GetMedication(ctx, 1, amlodipine.ID)
	require.NoError(t, err)
	assert.False(t, kept.Active)

	err = repo.DeactivateMedication(ctx, 2, metformin.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))

	_, err = repo.GetMedication(ctx, 2, metformin.ID)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user, err := repo.GetOrCreateByTelegramID(ctx, 1001, "asha", "Asha")
	require.NoError(t, err)
	assert.Equal(t, int64(1001), user.TelegramID)
	assert.Empty(t, user.Diseases)

	again, err := repo.GetOrCreateByTelegramID(ctx, 1001, "other", "Other")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Asha", again.Name)

	require.NoError(t, repo.UpdateDiseases(ctx, user.ID, []domain.Disease{
		domain.DiseaseDiabetes, domain.DiseaseHypertension, domain.DiseaseDiabetes,
	}))
	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Disease{domain.DiseaseDiabetes, domain.DiseaseHypertension}, got.Diseases)

	apiUser, err := repo.CreateUser(ctx, "Ravi", []domain.Disease{domain.DiseaseHeart})
	require.NoError(t, err)
	assert.Zero(t, apiUser.TelegramID)

	telegramUsers, err := repo.ListTelegramUsers(ctx)
	require.NoError(t, err)
	require.Len(t, telegramUsers, 1)
	assert.Equal(t, user.ID, telegramUsers[0].ID)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	err = repo.UpdateDiseases(ctx, 999, nil)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
