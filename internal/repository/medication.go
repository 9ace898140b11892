package repository

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/care-planner/internal/database"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"gorm.io/gorm"
)

// MedicationRepository handles medication data operations
type MedicationRepository struct {
	db *gorm.DB
}

var _ domain.MedicationStore = (*MedicationRepository)(nil)

func NewMedicationRepository(db *gorm.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

// CreateMedication stores an active medication and fills in ID and CreatedAt
func (r *MedicationRepository) CreateMedication(ctx context.Context, med *domain.Medication) error {
	row := database.Medication{
		UserID:    med.UserID,
		Name:      med.Name,
		Dosage:    med.Dosage,
		Frequency: med.Frequency,
		Times:     med.Times,
		Active:    true,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperrors.NewDatabaseError(err).WithContext("operation", "create_medication")
	}
	med.ID = row.ID
	med.Active = true
	med.CreatedAt = row.CreatedAt
	return nil
}

// GetMedication returns one of the user's medications, active or not
func (r *MedicationRepository) GetMedication(ctx context.Context, userID, medicationID uint) (*domain.Medication, error) {
	var row database.Medication
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", medicationID, userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("medication").WithContext("medication_id", medicationID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("operation", "get_medication")
	}
	med := toDomainMedication(row)
	return &med, nil
}

func (r *MedicationRepository) ListActiveMedications(ctx context.Context, userID uint) ([]domain.Medication, error) {
	var rows []database.Medication
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("operation", "list_medications")
	}

	meds := make([]domain.Medication, 0, len(rows))
	for _, row := range rows {
		meds = append(meds, toDomainMedication(row))
	}
	return meds, nil
}

// DeactivateMedication soft-deletes a medication; the row is kept
func (r *MedicationRepository) DeactivateMedication(ctx context.Context, userID, medicationID uint) error {
	result := r.db.WithContext(ctx).
		Model(&database.Medication{}).
		Where("id = ? AND user_id = ?", medicationID, userID).
		Update("active", false)
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error).WithContext("operation", "deactivate_medication")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("medication").WithContext("medication_id", medicationID)
	}
	return nil
}
