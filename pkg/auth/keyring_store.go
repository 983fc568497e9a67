package auth

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "sfpl"
	keyringPrefix  = "card_"
	// keyringIndex holds the list of saved barcodes, since keychains
	// cannot be enumerated portably
	keyringIndex = "cards"
)

// KeyringStore keeps cards in the system keychain
type KeyringStore struct{}

// NewKeyringStore probes the keychain and fails when none is reachable
func NewKeyringStore() (*KeyringStore, error) {
	const probe = "availability_probe"
	if err := keyring.Set(keyringService, probe, "ok"); err != nil {
		return nil, fmt.Errorf("keyring not available: %w", err)
	}
	_ = keyring.Delete(keyringService, probe)
	return &KeyringStore{}, nil
}

func (k *KeyringStore) Store(account *Account) error {
	if account == nil || account.Barcode == "" {
		return ErrInvalidCredentials
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	if err := keyring.Set(keyringService, keyringPrefix+account.Barcode, string(data)); err != nil {
		return fmt.Errorf("failed to store in keyring: %w", err)
	}
	return k.updateIndex(func(index map[string]bool) { index[account.Barcode] = true })
}

func (k *KeyringStore) Retrieve(barcode string) (*Account, error) {
	if barcode == "" {
		return nil, ErrInvalidCredentials
	}

	data, err := keyring.Get(keyringService, keyringPrefix+barcode)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, ErrCredentialsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve from keyring: %w", err)
	}

	var account Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &account, nil
}

func (k *KeyringStore) List() ([]*Account, error) {
	index, err := k.index()
	if err != nil {
		return nil, err
	}
	accounts := make([]*Account, 0, len(index))
	for barcode := range index {
		if account, err := k.Retrieve(barcode); err == nil {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (k *KeyringStore) Delete(barcode string) error {
	if barcode == "" {
		return ErrInvalidCredentials
	}

	err := keyring.Delete(keyringService, keyringPrefix+barcode)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrCredentialsNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return k.updateIndex(func(index map[string]bool) { delete(index, barcode) })
}

func (k *KeyringStore) Exists(barcode string) bool {
	if barcode == "" {
		return false
	}
	_, err := keyring.Get(keyringService, keyringPrefix+barcode)
	return err == nil
}

func (k *KeyringStore) index() (map[string]bool, error) {
	index := make(map[string]bool)
	data, err := keyring.Get(keyringService, keyringIndex)
	if errors.Is(err, keyring.ErrNotFound) {
		return index, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring index: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &index); err != nil {
		return nil, fmt.Errorf("failed to parse keyring index: %w", err)
	}
	return index, nil
}

func (k *KeyringStore) updateIndex(update func(map[string]bool)) error {
	index, err := k.index()
	if err != nil {
		return err
	}
	update(index)
	data, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return keyring.Set(keyringService, keyringIndex, string(data))
}
