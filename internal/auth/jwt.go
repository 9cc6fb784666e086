package auth

import (
	"accounts-backend/config"
	"accounts-backend/internal/models"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService mints, verifies and revokes the token pair. Access tokens are
// stateless: their validity is fully determined by signature and expiry.
// Refresh tokens are stateful so they can be revoked before their natural
// expiry; every verification goes through the store.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	accounts   AccountStore
	tokens     TokenStore
}

func NewTokenService(cfg *config.Config, accounts AccountStore, tokens TokenStore) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Auth.JWTSecret),
		accessTTL:  cfg.Auth.AccessTTL(),
		refreshTTL: cfg.Auth.RefreshTTL(),
		accounts:   accounts,
		tokens:     tokens,
	}
}

// IssueAccessToken builds a signed access claim set for the account.
// No side effects beyond signing.
func (s *TokenService) IssueAccessToken(account *models.Account) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    account.ID,
		Username:  account.Username,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// IssueRefreshToken builds a signed refresh claim set and persists the
// matching store row. A store failure is surfaced to the caller; it must
// never be mistaken for an authentication failure.
func (s *TokenService) IssueRefreshToken(account *models.Account) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.refreshTTL)

	claims := &Claims{
		UserID:    account.ID,
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	row := &models.RefreshToken{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Token:     signed,
		ExpiresAt: expiresAt,
	}
	if err := s.tokens.CreateRefreshToken(row); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return signed, nil
}

// VerifyAccessToken checks signature, expiry and token type, then resolves
// the active account. Fails closed: any failure yields a nil account.
func (s *TokenService) VerifyAccessToken(tokenString string) (*models.Account, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeAccess {
		return nil, ErrTokenTypeMismatch
	}

	return s.resolveActiveAccount(claims.UserID)
}

// VerifyRefreshToken verifies a refresh token against the store first: the
// row must exist, must not be blacklisted and must not be past its
// store-recorded expiry, independent of the signature expiry. Only then is
// the signature checked and the account resolved. All checks must pass.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*models.Account, error) {
	now := time.Now()

	row, err := s.tokens.GetRefreshToken(tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if row == nil {
		return nil, ErrTokenMalformed
	}
	if row.IsBlacklisted {
		return nil, ErrTokenRevoked
	}
	if row.IsExpired(now) {
		return nil, ErrTokenExpired
	}

	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != TokenTypeRefresh {
		return nil, ErrTokenTypeMismatch
	}

	return s.resolveActiveAccount(claims.UserID)
}

// RevokeToken blacklists the matching refresh token row. Idempotent; reports
// whether a row was found.
func (s *TokenService) RevokeToken(tokenString string) (bool, error) {
	return s.tokens.BlacklistToken(tokenString)
}

// RevokeAllTokens blacklists every live refresh token owned by the account.
// Used for "logout everywhere" after a password change.
func (s *TokenService) RevokeAllTokens(accountID string) error {
	return s.tokens.BlacklistAccountTokens(accountID)
}

func (s *TokenService) parseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

func (s *TokenService) resolveActiveAccount(id string) (*models.Account, error) {
	account, err := s.accounts.GetAccountByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if !account.IsActive {
		return nil, ErrAccountDisabled
	}
	return account, nil
}
