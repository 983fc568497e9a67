package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Account is a saved library card login. Name and UserID are filled in
// after the first successful login so listings can show who a card belongs to.
type Account struct {
	Barcode      string    `json:"barcode"`
	PIN          string    `json:"pin"`
	Name         string    `json:"name,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore persists accounts keyed by barcode
type CredentialStore interface {
	Store(account *Account) error
	Retrieve(barcode string) (*Account, error)
	List() ([]*Account, error)
	Delete(barcode string) error
	Exists(barcode string) bool
}

// Manager spreads credentials over several stores, most secure first
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a manager over the system keychain (when present),
// an encrypted file in the config directory and the environment
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	configDir, err := ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	fileStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, fileStore, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over explicit stores
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves the account in the first store that accepts it
func (m *Manager) Store(account *Account) error {
	if account == nil || strings.TrimSpace(account.Barcode) == "" {
		return errors.New("barcode is required")
	}
	if account.PIN == "" {
		return errors.New("PIN is required")
	}
	account.LastModified = time.Now()

	var lastErr error
	for _, store := range m.stores {
		err := store.Store(account)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return ErrStoreUnavailable
}

// Retrieve returns the account for a barcode from the first store holding it
func (m *Manager) Retrieve(barcode string) (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(barcode); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, fmt.Errorf("%w for card %s", ErrCredentialsNotFound, MaskBarcode(barcode))
}

// RetrieveDefault returns the environment's card if set, otherwise the
// most recently saved one
func (m *Manager) RetrieveDefault() (*Account, error) {
	for _, store := range m.stores {
		if env, ok := store.(*EnvironmentStore); ok {
			if account, err := env.Retrieve(""); err == nil {
				return account, nil
			}
		}
	}

	accounts, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, ErrCredentialsNotFound
	}
	return accounts[0], nil
}

// List merges every store's accounts, keeping the newest copy of each
// card, newest first
func (m *Manager) List() ([]*Account, error) {
	byBarcode := make(map[string]*Account)
	for _, store := range m.stores {
		accounts, err := store.List()
		if err != nil {
			continue
		}
		for _, account := range accounts {
			if existing, ok := byBarcode[account.Barcode]; !ok || account.LastModified.After(existing.LastModified) {
				byBarcode[account.Barcode] = account
			}
		}
	}

	result := make([]*Account, 0, len(byBarcode))
	for _, account := range byBarcode {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastModified.Equal(result[j].LastModified) {
			return result[i].LastModified.After(result[j].LastModified)
		}
		return result[i].Barcode < result[j].Barcode
	})
	return result, nil
}

// Delete removes the card from every store holding it
func (m *Manager) Delete(barcode string) error {
	deleted := false
	var lastErr error
	for _, store := range m.stores {
		if err := store.Delete(barcode); err == nil {
			deleted = true
		} else if !errors.Is(err, ErrCredentialsNotFound) && !errors.Is(err, ErrStoreUnavailable) {
			lastErr = err
		}
	}

	switch {
	case deleted:
		return nil
	case lastErr != nil:
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	default:
		return fmt.Errorf("%w for card %s", ErrCredentialsNotFound, MaskBarcode(barcode))
	}
}

// ConfigDir returns the per-user sfpl configuration directory, creating it
func ConfigDir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support", "sfpl")
	case "windows":
		dir = filepath.Join(os.Getenv("APPDATA"), "sfpl")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			dir = filepath.Join(xdg, "sfpl")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dir = filepath.Join(home, ".config", "sfpl")
		}
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// SanitizeAccount returns a copy that is safe to print
func SanitizeAccount(account *Account) *Account {
	if account == nil {
		return nil
	}
	sanitized := *account
	sanitized.Barcode = MaskBarcode(account.Barcode)
	sanitized.PIN = "****"
	return &sanitized
}

// MaskBarcode hides all but the last four digits of a card number
func MaskBarcode(barcode string) string {
	if len(barcode) <= 4 {
		return strings.Repeat("*", len(barcode))
	}
	return strings.Repeat("*", len(barcode)-4) + barcode[len(barcode)-4:]
}

var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
