package auth

import (
	"sync"
)

// MemoryStore keeps cards in memory. Tests use it, and the CLI falls back
// to it for a single run when no persistent store is wanted.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]Account

	// StoreError and friends are returned instead of touching the map
	StoreError    error
	RetrieveError error
	ListError     error
	DeleteError   error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{accounts: make(map[string]Account)}
}

func (m *MemoryStore) Store(account *Account) error {
	if m.StoreError != nil {
		return m.StoreError
	}
	if account == nil || account.Barcode == "" {
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Barcode] = *account
	return nil
}

func (m *MemoryStore) Retrieve(barcode string) (*Account, error) {
	if m.RetrieveError != nil {
		return nil, m.RetrieveError
	}
	if barcode == "" {
		return nil, ErrInvalidCredentials
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[barcode]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	return &account, nil
}

func (m *MemoryStore) List() ([]*Account, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		account := account
		accounts = append(accounts, &account)
	}
	return accounts, nil
}

func (m *MemoryStore) Delete(barcode string) error {
	if m.DeleteError != nil {
		return m.DeleteError
	}
	if barcode == "" {
		return ErrInvalidCredentials
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[barcode]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.accounts, barcode)
	return nil
}

func (m *MemoryStore) Exists(barcode string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.accounts[barcode]
	return ok
}

// Count returns the number of stored cards
func (m *MemoryStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.accounts)
}
