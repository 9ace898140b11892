package domain

import (
	"context"
	"time"
)

// ReadingQuery filters readings for one user. A nil MetricType matches all metrics.
type ReadingQuery struct {
	UserID       uint
	MetricType   *MetricType
	TrailingDays int
	Now          time.Time
}

// LogStore persists readings. Implementations make no ordering promise.
type LogStore interface {
	SaveReading(ctx context.Context, reading *Reading) error
	QueryReadings(ctx context.Context, q ReadingQuery) ([]Reading, error)
	LatestReading(ctx context.Context, userID uint, metric MetricType) (*Reading, error)
}

// MedicationStore persists medications with soft deactivation
type MedicationStore interface {
	CreateMedication(ctx context.Context, med *Medication) error
	GetMedication(ctx context.Context, userID, medicationID uint) (*Medication, error)
	ListActiveMedications(ctx context.Context, userID uint) ([]Medication, error)
	DeactivateMedication(ctx context.Context, userID, medicationID uint) error
}

// UserStore handles user records
type UserStore interface {
	GetOrCreateByTelegramID(ctx context.Context, telegramID int64, username, name string) (*User, error)
	CreateUser(ctx context.Context, name string, diseases []Disease) (*User, error)
	GetByID(ctx context.Context, userID uint) (*User, error)
	UpdateDiseases(ctx context.Context, userID uint, diseases []Disease) error
	ListTelegramUsers(ctx context.Context) ([]User, error)
}

// AIClient is the generative text/vision collaborator. Output wording is not
// part of any contract.
type AIClient interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateStructured returns the JSON object extracted from the model reply.
	GenerateStructured(ctx context.Context, prompt string, image []byte) ([]byte, error)
}
