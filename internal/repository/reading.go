package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vladimiradmaev/care-planner/internal/database"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"github.com/vladimiradmaev/care-planner/internal/utils"
	"gorm.io/gorm"
)

// ReadingRepository is the gorm LogStore. Trailing windows are counted in
// log dates of loc.
type ReadingRepository struct {
	db  *gorm.DB
	loc *time.Location
}

var _ domain.LogStore = (*ReadingRepository)(nil)

func NewReadingRepository(db *gorm.DB, loc *time.Location) *ReadingRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &ReadingRepository{db: db, loc: loc}
}

// SaveReading appends a reading and fills in its ID
func (r *ReadingRepository) SaveReading(ctx context.Context, reading *domain.Reading) error {
	row := fromDomainReading(reading)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperrors.NewDatabaseError(err).WithContext("operation", "save_reading")
	}
	reading.ID = row.ID
	return nil
}

// QueryReadings returns readings with log dates inside the trailing window.
// TrailingDays of 0 means no lower bound.
func (r *ReadingRepository) QueryReadings(ctx context.Context, q domain.ReadingQuery) ([]domain.Reading, error) {
	tx := r.db.WithContext(ctx).Where("user_id = ?", q.UserID)
	if q.MetricType != nil {
		tx = tx.Where("metric_type = ?", string(*q.MetricType))
	}
	if q.TrailingDays > 0 {
		now := q.Now
		if now.IsZero() {
			now = time.Now()
		}
		tx = tx.Where("log_date >= ? AND log_date <= ?",
			utils.WindowStart(now, q.TrailingDays, r.loc),
			utils.LogDate(now, r.loc),
		)
	}

	var rows []database.Reading
	if err := tx.Order("timestamp ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("operation", "query_readings")
	}

	readings := make([]domain.Reading, 0, len(rows))
	for _, row := range rows {
		readings = append(readings, toDomainReading(row))
	}
	return readings, nil
}

// LatestReading returns the most recent reading of a metric or ErrNotFound
func (r *ReadingRepository) LatestReading(ctx context.Context, userID uint, metric domain.MetricType) (*domain.Reading, error) {
	var row database.Reading
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND metric_type = ?", userID, string(metric)).
		Order("timestamp DESC").Order("id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("reading").WithContext("metric_type", string(metric))
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("operation", "latest_reading")
	}
	reading := toDomainReading(row)
	return &reading, nil
}
