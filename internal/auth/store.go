package auth

import (
	"accounts-backend/internal/models"
	"time"
)

// AccountStore is the account persistence surface the auth services depend
// on. Implementations return (nil, nil) when no record matches.
type AccountStore interface {
	CreateAccount(account *models.Account) error
	GetAccountByID(id string) (*models.Account, error)
	GetAccountByUsername(username string) (*models.Account, error)
	UsernameTaken(username string) (bool, error)
	PhoneTaken(phone string) (bool, error)
	UpdateLastLogin(id string, at time.Time) error
	UpdatePassword(id string, hash string) error
}

// TokenStore is the refresh-token persistence surface. The store is
// authoritative for revocation and expiry of refresh tokens.
type TokenStore interface {
	CreateRefreshToken(token *models.RefreshToken) error
	GetRefreshToken(token string) (*models.RefreshToken, error)
	BlacklistToken(token string) (bool, error)
	BlacklistAccountTokens(accountID string) error
	DeleteExpired(before time.Time) (int64, error)
}
