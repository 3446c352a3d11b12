package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "dcon"

// Secrets stores profile passwords.
type Secrets interface {
	Get(profile string) (string, error)
	Set(profile, password string) error
	Delete(profile string) error
}

// Keyring stores passwords in the OS keyring under the service "dcon".
type Keyring struct{}

// Get returns the stored password, or "" when none is stored.
func (Keyring) Get(profile string) (string, error) {
	pw, err := keyring.Get(keyringService, profile)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("keyring get: %w", err)
	}
	return pw, nil
}

// Set stores password for profile.
func (Keyring) Set(profile, password string) error {
	if err := keyring.Set(keyringService, profile, password); err != nil {
		return fmt.Errorf("keyring set: %w", err)
	}
	return nil
}

// Delete removes the stored password. Deleting a missing entry is not an error.
func (Keyring) Delete(profile string) error {
	err := keyring.Delete(keyringService, profile)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete: %w", err)
	}
	return nil
}
