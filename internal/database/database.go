package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/casaflow/casaflow-backend/internal/config"
	"github.com/casaflow/casaflow-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return nil
}

// Migrate runs AutoMigrate for all models.
func Migrate() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Apartment{},
		&models.Issue{},
		&models.Post{},
		&models.Tag{},
		&models.Reply{},
		&models.PostBookmark{},
		&models.PostVote{},
		&models.Rating{},
		&models.Report{},
		&models.ContentView{},
		&models.SystemLog{},
	); err != nil {
		return err
	}

	// The viewer identity index must treat NULL user_id/viewer_ip values as
	// equal, or duplicate anonymous views slip past the constraint. Postgres
	// needs NULLS NOT DISTINCT for that; the tag-generated index cannot
	// express it.
	if DB.Dialector.Name() == "postgres" {
		if err := DB.Exec(`DROP INDEX IF EXISTS idx_content_views_viewer`).Error; err != nil {
			return err
		}
		return DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_content_views_viewer
			ON content_views (content_type, object_id, user_id, viewer_ip)
			NULLS NOT DISTINCT`).Error
	}
	return nil
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
