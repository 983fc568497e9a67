package auth

import (
	"os"
	"time"
)

const (
	BarcodeEnv = "SFPL_BARCODE"
	PINEnv     = "SFPL_PIN"
)

// EnvironmentStore reads a single card from SFPL_BARCODE and SFPL_PIN.
// It is read-only.
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment card when barcode is empty or matches it
func (e *EnvironmentStore) Retrieve(barcode string) (*Account, error) {
	envBarcode, pin := os.Getenv(BarcodeEnv), os.Getenv(PINEnv)
	if envBarcode == "" || pin == "" {
		return nil, ErrCredentialsNotFound
	}
	if barcode != "" && barcode != envBarcode {
		return nil, ErrCredentialsNotFound
	}
	return &Account{Barcode: envBarcode, PIN: pin, LastModified: time.Now()}, nil
}

func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

func (e *EnvironmentStore) Delete(barcode string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(barcode string) bool {
	_, err := e.Retrieve(barcode)
	return err == nil
}
