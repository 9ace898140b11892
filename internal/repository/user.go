package repository

import (
	"context"
	"errors"

	"github.com/vladimiradmaev/care-planner/internal/database"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	apperrors "github.com/vladimiradmaev/care-planner/internal/errors"
	"gorm.io/gorm"
)

// UserRepository handles user data operations
type UserRepository struct {
	db *gorm.DB
}

var _ domain.UserStore = (*UserRepository)(nil)

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreateByTelegramID gets an existing user or creates a new one
func (r *UserRepository) GetOrCreateByTelegramID(ctx context.Context, telegramID int64, username, name string) (*domain.User, error) {
	var user database.User
	result := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user)
	if result.Error == nil {
		u := toDomainUser(user)
		return &u, nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewDatabaseError(result.Error).WithContext("operation", "get_user")
	}

	user = database.User{
		TelegramID: &telegramID,
		Username:   username,
		Name:       name,
		Diseases:   []string{},
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("operation", "create_user")
	}

	u := toDomainUser(user)
	return &u, nil
}

// CreateUser stores a user that is not linked to Telegram
func (r *UserRepository) CreateUser(ctx context.Context, name string, diseases []domain.Disease) (*domain.User, error) {
	user := database.User{Name: name, Diseases: diseaseStrings(diseases)}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("operation", "create_user")
	}
	u := toDomainUser(user)
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*domain.User, error) {
	var user database.User
	err := r.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("operation", "get_user")
	}
	u := toDomainUser(user)
	return &u, nil
}

// UpdateDiseases replaces the user's condition set; duplicates are dropped
func (r *UserRepository) UpdateDiseases(ctx context.Context, userID uint, diseases []domain.Disease) error {
	result := r.db.WithContext(ctx).
		Model(&database.User{Model: gorm.Model{ID: userID}}).
		Select("diseases").
		Updates(&database.User{Diseases: diseaseStrings(diseases)})
	if result.Error != nil {
		return apperrors.NewDatabaseError(result.Error).WithContext("operation", "update_diseases")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ListTelegramUsers returns users reachable through the bot
func (r *UserRepository) ListTelegramUsers(ctx context.Context) ([]domain.User, error) {
	var rows []database.User
	if err := r.db.WithContext(ctx).Where("telegram_id IS NOT NULL").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err).WithContext("operation", "list_users")
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toDomainUser(row))
	}
	return users, nil
}
