package database

import (
	"fmt"

	"github.com/lshigami/studyhub-ai/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the document store. It returns a nil *gorm.DB (and no error)
// when no database host is configured, so the persisted-test routes can report
// themselves as unavailable instead of failing start-up.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	if !cfg.Database.Enabled() {
		log.Warn().Msg("DATABASE_HOST is not set. Persisted custom tests are disabled.")
		return nil, nil
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Error().Err(err).Str("host", cfg.Database.Host).Msg("Failed to connect to Postgres")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info().Str("host", cfg.Database.Host).Str("name", cfg.Database.Name).Msg("Connected to Postgres")
	return db, nil
}
