package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
)

// KnownDiseases lists the conditions a user may manage
var KnownDiseases = []domain.Disease{domain.DiseaseDiabetes, domain.DiseaseHypertension, domain.DiseaseHeart}

type UserService struct {
	users domain.UserStore
}

func NewUserService(users domain.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) RegisterTelegramUser(ctx context.Context, telegramID int64, username, name string) (*domain.User, error) {
	user, err := s.users.GetOrCreateByTelegramID(ctx, telegramID, username, name)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Create registers a user that only uses the HTTP API
func (s *UserService) Create(ctx context.Context, name string, diseases []domain.Disease) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if err := validateDiseases(diseases); err != nil {
		return nil, err
	}
	return s.users.CreateUser(ctx, name, diseases)
}

func (s *UserService) Get(ctx context.Context, userID uint) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// SetDiseases replaces the user's managed conditions
func (s *UserService) SetDiseases(ctx context.Context, userID uint, diseases []domain.Disease) error {
	if err := validateDiseases(diseases); err != nil {
		return err
	}
	return s.users.UpdateDiseases(ctx, userID, diseases)
}

// ParseDisease accepts the stored name or a common spelling
func ParseDisease(s string) (domain.Disease, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "diabetes", "type 2 diabetes", "t2d":
		return domain.DiseaseDiabetes, true
	case "hypertension", "high blood pressure", "bp":
		return domain.DiseaseHypertension, true
	case "heart_disease", "heart disease", "heart":
		return domain.DiseaseHeart, true
	}
	return "", false
}

func validateDiseases(diseases []domain.Disease) error {
	for _, d := range diseases {
		if !slices.Contains(KnownDiseases, d) {
			return apperrors.NewValidationError(fmt.Sprintf("unknown condition %q", d))
		}
	}
	return nil
}
