package repository

import (
	"accounts-backend/internal/models"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) CreateAccount(account *models.Account) error {
	result := r.db.Create(account)
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to create account")
		return result.Error
	}
	return nil
}

// GetAccountByUsername looks up an account by its normalized username.
// Returns nil without error when no account exists.
func (r *AccountRepository) GetAccountByUsername(username string) (*models.Account, error) {
	var account models.Account
	result := r.db.Where("username = ?", username).First(&account)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to get account by username")
		return nil, result.Error
	}

	return &account, nil
}

func (r *AccountRepository) GetAccountByID(id string) (*models.Account, error) {
	var account models.Account
	result := r.db.Where("id = ?", id).First(&account)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to get account by ID")
		return nil, result.Error
	}

	return &account, nil
}

func (r *AccountRepository) UsernameTaken(username string) (bool, error) {
	var count int64
	result := r.db.Model(&models.Account{}).
		Where("username = ?", username).
		Count(&count)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to check username uniqueness")
		return false, result.Error
	}
	return count > 0, nil
}

func (r *AccountRepository) PhoneTaken(phone string) (bool, error) {
	var count int64
	result := r.db.Model(&models.Account{}).
		Where("phone = ?", phone).
		Count(&count)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to check phone uniqueness")
		return false, result.Error
	}
	return count > 0, nil
}

func (r *AccountRepository) UpdateLastLogin(id string, at time.Time) error {
	result := r.db.Model(&models.Account{}).
		Where("id = ?", id).
		Update("last_login", at)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to update last login")
		return result.Error
	}
	return nil
}

func (r *AccountRepository) UpdatePassword(id string, hash string) error {
	result := r.db.Model(&models.Account{}).
		Where("id = ?", id).
		Update("password", hash)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to update password")
		return result.Error
	}
	return nil
}

func (r *AccountRepository) UpdateAccountStatus(id string, active bool) error {
	result := r.db.Model(&models.Account{}).
		Where("id = ?", id).
		Update("is_active", active)

	if result.Error != nil {
		log.Error().Err(result.Error).Msg("Failed to update account status")
		return result.Error
	}
	return nil
}

// GetAllAccounts returns all accounts in the system
func (r *AccountRepository) GetAllAccounts() ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.Find(&accounts).Error
	return accounts, err
}
