package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"farmify/internal/config"
	model "farmify/internal/models"
	"farmify/utils"
)

// Connect opens the PostgreSQL connection described by cfg and configures
// the pool. One connection is shared for the process lifetime.
func Connect(cfg config.Database) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s dbname=%s port=%s sslmode=%s password=%s",
		cfg.Host, cfg.User, cfg.Name, cfg.Port, cfg.SSLMode, cfg.Password)

	utils.Info("connecting to database", map[string]any{
		"host": cfg.Host, "db": cfg.Name, "user": cfg.User, "port": cfg.Port, "sslmode": cfg.SSLMode,
	})

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// Maps driver errors onto gorm sentinels such as ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping: %w", err)
	}

	utils.Info("database connection established", nil)
	return db, nil
}

// Migrate runs AutoMigrate for every marketplace entity.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Buyer{},
		&model.Seller{},
		&model.Product{},
		&model.Bid{},
		&model.CreditCard{},
		&model.Order{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
