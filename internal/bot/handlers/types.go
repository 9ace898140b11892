package handlers

import (
	"context"

	"github.com/vladimiradmaev/care-planner/internal/analysis"
	"github.com/vladimiradmaev/care-planner/internal/bot/menus"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/services"
)

// API is the Telegram surface the handlers need; *tgbotapi.BotAPI satisfies it
type API interface {
	menus.Sender
	GetFileDirectURL(fileID string) (string, error)
}

type UserService interface {
	RegisterTelegramUser(ctx context.Context, telegramID int64, username, name string) (*domain.User, error)
	Get(ctx context.Context, userID uint) (*domain.User, error)
	SetDiseases(ctx context.Context, userID uint, diseases []domain.Disease) error
}

type ReadingLogger interface {
	Log(ctx context.Context, userID uint, in services.ReadingInput) (*services.LoggedReading, error)
}

type TrendReporter interface {
	TrendReport(ctx context.Context, userID uint) (*services.TrendReport, error)
	WeeklyReport(ctx context.Context, userID uint) (*analysis.WeeklyReport, error)
	Adjustments(ctx context.Context, userID uint) (domain.AdjustmentPlan, error)
	HbA1cStatus(ctx context.Context, userID uint) (analysis.HbA1cStatus, error)
	WaterToday(ctx context.Context, userID uint) (analysis.WaterProgress, error)
	CarePlan(ctx context.Context, userID uint) (analysis.DailyCarePlan, error)
}

type FoodAnalyzer interface {
	Analyze(ctx context.Context, userID uint, description, quantity string, condition domain.Condition) (*domain.FoodAnalysis, error)
	AnalyzePhoto(ctx context.Context, userID uint, image []byte, caption string, condition domain.Condition) (*domain.FoodAnalysis, error)
}

type MedicationManager interface {
	Create(ctx context.Context, userID uint, in services.MedicationInput) (*domain.Medication, error)
	ListActive(ctx context.Context, userID uint) ([]domain.Medication, error)
	Deactivate(ctx context.Context, userID, medicationID uint) error
	LogIntake(ctx context.Context, userID, medicationID uint) (*domain.Reading, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Users       UserService
	Readings    ReadingLogger
	Trends      TrendReporter
	Food        FoodAnalyzer
	Medications MedicationManager
}
