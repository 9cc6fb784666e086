package models

import "time"

// RefreshToken is the persisted record backing a refresh token. The row is
// the source of truth for revocation: the signature only proves integrity.
// Rows are never deleted on logout, only flagged; expired rows are cleaned
// up by the scheduler.
type RefreshToken struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AccountID     string    `json:"accountId" gorm:"type:varchar(36);not null;index"`
	Token         string    `json:"token" gorm:"type:varchar(500);not null;uniqueIndex"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime;not null"`
	ExpiresAt     time.Time `json:"expiresAt" gorm:"not null;index"`
	IsBlacklisted bool      `json:"isBlacklisted" gorm:"not null;default:false"`
}

// TableName specifies the table name for GORM
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpired reports whether the token is past its store-recorded expiry
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Usable reports whether the token can still mint access tokens
func (t *RefreshToken) Usable(now time.Time) bool {
	return !t.IsBlacklisted && !t.IsExpired(now)
}
