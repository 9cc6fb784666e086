package auth

import (
	"accounts-backend/internal/models"
	"errors"
	"sync"
	"time"
)

// MemoryAccountStore is an in-memory AccountStore for tests and local
// development. It enforces the same uniqueness rules as the database.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{accounts: make(map[string]*models.Account)}
}

func (m *MemoryAccountStore) CreateAccount(account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.accounts {
		if a.Username == account.Username {
			return errors.New("duplicate username")
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MemoryAccountStore) GetAccountByID(id string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, nil
}

func (m *MemoryAccountStore) GetAccountByUsername(username string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, nil
}

func (m *MemoryAccountStore) UsernameTaken(username string) (bool, error) {
	a, _ := m.GetAccountByUsername(username)
	return a != nil, nil
}

func (m *MemoryAccountStore) PhoneTaken(phone string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, a := range m.accounts {
		if a.Phone != "" && a.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryAccountStore) UpdateLastLogin(id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.accounts[id]; ok {
		a.LastLogin = &at
	}
	return nil
}

func (m *MemoryAccountStore) UpdatePassword(id string, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.accounts[id]; ok {
		a.Password = hash
	}
	return nil
}

// MemoryTokenStore is an in-memory TokenStore for tests and local
// development
type MemoryTokenStore struct {
	mu   sync.RWMutex
	rows map[string]*models.RefreshToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{rows: make(map[string]*models.RefreshToken)}
}

func (m *MemoryTokenStore) CreateRefreshToken(token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rows[token.Token]; ok {
		return errors.New("duplicate token")
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	m.rows[token.Token] = token
	return nil
}

func (m *MemoryTokenStore) GetRefreshToken(token string) (*models.RefreshToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if row, ok := m.rows[token]; ok {
		return row, nil
	}
	return nil, nil
}

func (m *MemoryTokenStore) BlacklistToken(token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[token]
	if !ok {
		return false, nil
	}
	row.IsBlacklisted = true
	return true, nil
}

func (m *MemoryTokenStore) BlacklistAccountTokens(accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, row := range m.rows {
		if row.AccountID == accountID {
			row.IsBlacklisted = true
		}
	}
	return nil
}

func (m *MemoryTokenStore) DeleteExpired(before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed int64
	for key, row := range m.rows {
		if row.ExpiresAt.Before(before) {
			delete(m.rows, key)
			removed++
		}
	}
	return removed, nil
}
