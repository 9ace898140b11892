package database

import (
	"fmt"
	"time"

	"github.com/vladimiradmaev/care-planner/internal/config"
	"github.com/vladimiradmaev/care-planner/internal/database/migrations"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type User struct {
	gorm.Model
	TelegramID *int64 `gorm:"uniqueIndex"`
	Username   string
	Name       string
	Diseases   []string `gorm:"serializer:json"`
}

// Reading is append-only; there is no update path
type Reading struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UserID         uint   `gorm:"not null;index"`
	User           User   `gorm:"constraint:OnDelete:CASCADE"`
	MetricType     string `gorm:"size:32;not null"`
	PrimaryValue   float64
	SecondaryValue *float64
	Unit           string `gorm:"size:16"`
	Context        string `gorm:"size:64"`
	Notes          string
	Timestamp      time.Time `gorm:"not null"`
	LogDate        time.Time `gorm:"not null"`
}

type Medication struct {
	gorm.Model
	UserID    uint `gorm:"not null;index"`
	User      User `gorm:"constraint:OnDelete:CASCADE"`
	Name      string
	Dosage    string
	Frequency string
	Times     []string `gorm:"serializer:json"`
	Active    bool
}

// Models lists every table managed by AutoMigrate
func Models() []any {
	return []any{&User{}, &Reading{}, &Medication{}}
}

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info("Database connection established and migrations completed", "host", cfg.Host, "db", cfg.DBName)
	return db, nil
}

// Migrate creates the schema and then applies the SQL migrations on top of it
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	m := migrations.New()
	if err := m.LoadSQL(migrations.Files, migrations.Dir); err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := m.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
