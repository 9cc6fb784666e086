package database

import (
	"accounts-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// RunMigrations performs all database migrations
func RunMigrations() error {
	db := GetDB()

	if err := db.AutoMigrate(&models.Account{}); err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
		return err
	}

	// Refresh tokens reference their owning account; many tokens per account
	if err := db.Exec(`
        ALTER TABLE refresh_tokens
        ADD CONSTRAINT fk_refresh_tokens_account
        FOREIGN KEY (account_id)
        REFERENCES accounts(id)
        ON DELETE CASCADE
    `).Error; err != nil {
		log.Warn().Err(err).Msg("Failed to add foreign key constraint - might already exist")
	}

	log.Info().Msg("Database migrations completed successfully")
	return nil
}
