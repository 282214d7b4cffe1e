// Package credentials persists the Foursquare access token in the OS keyring.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultService = "triplog"
	defaultUser    = "foursquare"
)

// Sentinel kinds for credential errors.
var (
	ErrNoCredential = errors.New("no access token configured or stored")
)

// Swappable for tests.
var (
	keyringSet    = keyring.Set
	keyringGet    = keyring.Get
	keyringDelete = keyring.Delete
)

// Store keeps one token under Service/User.
type Store struct {
	Service string
	User    string
}

// NewStore creates a Store with the default service and user names.
func NewStore() *Store {
	return &Store{Service: defaultService, User: defaultUser}
}

// Save stores token.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("save token: %w", ErrNoCredential)
	}
	if err := keyringSet(s.Service, s.User, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load returns the stored token, or ErrNoCredential when none exists.
func (s *Store) Load() (string, error) {
	token, err := keyringGet(s.Service, s.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s *Store) Delete() error {
	if err := keyringDelete(s.Service, s.User); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Resolve picks the configured token when set, otherwise the stored one.
func Resolve(configured string, store *Store) (string, error) {
	if t := strings.TrimSpace(configured); t != "" {
		return t, nil
	}
	if store == nil {
		return "", ErrNoCredential
	}
	return store.Load()
}
