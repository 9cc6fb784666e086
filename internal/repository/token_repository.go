package repository

import (
	"accounts-backend/internal/models"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) CreateRefreshToken(token *models.RefreshToken) error {
	result := r.db.Create(token)
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to store refresh token")
		return result.Error
	}
	return nil
}

// GetRefreshToken fetches a refresh token row by its token string.
// Returns nil without error when no row exists.
func (r *TokenRepository) GetRefreshToken(token string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	result := r.db.Where("token = ?", token).First(&row)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to get refresh token")
		return nil, result.Error
	}

	return &row, nil
}

// BlacklistToken flips the blacklist flag on the matching row. The flag is
// monotonic: once set it is never cleared. Reports whether a row was found.
func (r *TokenRepository) BlacklistToken(token string) (bool, error) {
	result := r.db.Model(&models.RefreshToken{}).
		Where("token = ?", token).
		Update("is_blacklisted", true)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to blacklist refresh token")
		return false, result.Error
	}

	if result.RowsAffected > 0 {
		return true, nil
	}

	// RowsAffected is 0 both for a missing row and for one already
	// blacklisted; revocation is idempotent, so distinguish the two.
	var count int64
	if err := r.db.Model(&models.RefreshToken{}).Where("token = ?", token).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// BlacklistAccountTokens blacklists every live refresh token owned by the
// account ("logout everywhere")
func (r *TokenRepository) BlacklistAccountTokens(accountID string) error {
	result := r.db.Model(&models.RefreshToken{}).
		Where("account_id = ? AND is_blacklisted = false", accountID).
		Update("is_blacklisted", true)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to blacklist account tokens")
		return result.Error
	}
	return nil
}

// DeleteExpired removes rows whose store expiry has passed. Revoked rows are
// kept until they expire so that the blacklist stays authoritative for the
// whole signature lifetime.
func (r *TokenRepository) DeleteExpired(before time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", before).
		Delete(&models.RefreshToken{})

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to delete expired refresh tokens")
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
