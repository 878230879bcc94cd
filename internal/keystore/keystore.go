// Package keystore manages the long-lived vault key.
//
// The default backend is a plain file holding the raw 32 key bytes,
// created on first use. Alternative backends serve the same key from the
// OS keyring or from the PASSVAULT_KEY environment variable. Every backend
// validates the key length before handing it out, so a truncated or
// foreign key fails fast instead of surfacing later as a decrypt error.
package keystore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/passvault/passvault/internal/crypto"
)

// EnvKey is the environment variable holding a base64 (URL-safe) vault key.
const EnvKey = "PASSVAULT_KEY"

const keyringService = "passvault"

var ErrKeySize = errors.New("invalid key size")

// Store provides the vault key.
type Store interface {
	// GetOrCreate returns the vault key, generating and persisting a fresh
	// one on first use. It never returns an empty or partial key.
	GetOrCreate() ([]byte, error)
}

// FileStore keeps the key as the raw bytes of a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed key store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// GetOrCreate reads the key file, or generates a new key and writes it
// with owner-only permissions when the file does not exist yet. Two
// processes racing through a first run are not serialized; callers that
// need that must coordinate externally.
func (s *FileStore) GetOrCreate() ([]byte, error) {
	key, err := os.ReadFile(s.path)
	if err == nil {
		if len(key) != crypto.KeySize {
			return nil, fmt.Errorf("%w: %s holds %d bytes, want %d", ErrKeySize, s.path, len(key), crypto.KeySize)
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key, err = crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.path, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	return key, nil
}

// Path returns the key file location.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the key file is already present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// EnvStore serves the key from the PASSVAULT_KEY environment variable.
// It never creates key material.
type EnvStore struct{}

// GetOrCreate decodes and validates the key from the environment.
func (EnvStore) GetOrCreate() ([]byte, error) {
	encoded := os.Getenv(EnvKey)
	if encoded == "" {
		return nil, fmt.Errorf("%s is not set", EnvKey)
	}
	return decodeKey(encoded)
}

// EnvPresent reports whether PASSVAULT_KEY is set.
func EnvPresent() bool {
	return os.Getenv(EnvKey) != ""
}

// KeyringStore keeps the key in the operating system keyring under the
// passvault service, one entry per vault identity.
type KeyringStore struct {
	account string
}

// NewKeyringStore creates a keyring-backed store for the given account,
// typically the vault ID.
func NewKeyringStore(account string) *KeyringStore {
	return &KeyringStore{account: account}
}

// GetOrCreate returns the key from the keyring, generating and storing a
// fresh one when no entry exists yet.
func (s *KeyringStore) GetOrCreate() ([]byte, error) {
	encoded, err := keyring.Get(keyringService, s.account)
	if err == nil {
		return decodeKey(encoded)
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := s.Set(key); err != nil {
		return nil, err
	}
	return key, nil
}

// Set stores key material in the keyring, replacing any existing entry.
func (s *KeyringStore) Set(key []byte) error {
	if len(key) != crypto.KeySize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrKeySize, len(key), crypto.KeySize)
	}
	if err := keyring.Set(keyringService, s.account, base64.URLEncoding.EncodeToString(key)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

// Delete removes the key from the keyring.
func (s *KeyringStore) Delete() error {
	if err := keyring.Delete(keyringService, s.account); err != nil {
		return fmt.Errorf("failed to delete keyring entry: %w", err)
	}
	return nil
}

// Present reports whether the keyring holds a key for this vault.
func (s *KeyringStore) Present() bool {
	_, err := keyring.Get(keyringService, s.account)
	return err == nil
}

func decodeKey(encoded string) ([]byte, error) {
	key, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key material: %w", err)
	}
	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("%w: %d bytes, want %d", ErrKeySize, len(key), crypto.KeySize)
	}
	return key, nil
}
