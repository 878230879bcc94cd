package keystore

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/passvault/passvault/internal/crypto"
)

func TestFileStoreCreatesKeyOnFirstUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")
	s := NewFileStore(path)

	if s.Exists() {
		t.Fatal("key file reported present before first use")
	}

	key, err := s.GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if len(key) != crypto.KeySize {
		t.Fatalf("key length = %d, want %d", len(key), crypto.KeySize)
	}
	if !s.Exists() {
		t.Error("key file not created")
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading key file: %v", err)
	}
	if !bytes.Equal(onDisk, key) {
		t.Error("key file contents differ from returned key")
	}
}

func TestFileStoreStableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.key")
	s := NewFileStore(path)

	first, err := s.GetOrCreate()
	if err != nil {
		t.Fatalf("first GetOrCreate() error = %v", err)
	}
	second, err := s.GetOrCreate()
	if err != nil {
		t.Fatalf("second GetOrCreate() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("key changed between calls")
	}

	// A fresh store over the same file must see the same key.
	restarted, err := NewFileStore(path).GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate() after restart error = %v", err)
	}
	if !bytes.Equal(first, restarted) {
		t.Error("key changed across store instances")
	}
}

func TestFileStoreRejectsWrongSize(t *testing.T) {
	cases := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"truncated", 16},
		{"oversized", 33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "secret.key")
			if err := os.WriteFile(path, make([]byte, tc.size), 0600); err != nil {
				t.Fatalf("writing key file: %v", err)
			}

			key, err := NewFileStore(path).GetOrCreate()
			if !errors.Is(err, ErrKeySize) {
				t.Errorf("GetOrCreate() error = %v, want ErrKeySize", err)
			}
			if key != nil {
				t.Error("GetOrCreate() returned a key despite invalid size")
			}
		})
	}
}

func TestFileStorePropagatesWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "secret.key")

	key, err := NewFileStore(path).GetOrCreate()
	if err == nil {
		t.Fatal("GetOrCreate() succeeded with an unwritable key path")
	}
	if key != nil {
		t.Error("GetOrCreate() returned a key despite write failure")
	}
}

func TestEnvStore(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}

	t.Setenv(EnvKey, base64.URLEncoding.EncodeToString(key))
	if !EnvPresent() {
		t.Fatal("EnvPresent() = false with variable set")
	}
	got, err := EnvStore{}.GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Error("env key differs from encoded key")
	}
}

func TestEnvStoreRejectsBadMaterial(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv(EnvKey, "")
		if _, err := (EnvStore{}).GetOrCreate(); err == nil {
			t.Error("GetOrCreate() succeeded with unset variable")
		}
	})
	t.Run("not base64", func(t *testing.T) {
		t.Setenv(EnvKey, "not base64 at all!")
		if _, err := (EnvStore{}).GetOrCreate(); err == nil {
			t.Error("GetOrCreate() succeeded with invalid encoding")
		}
	})
	t.Run("wrong size", func(t *testing.T) {
		t.Setenv(EnvKey, base64.URLEncoding.EncodeToString(make([]byte, 16)))
		if _, err := (EnvStore{}).GetOrCreate(); !errors.Is(err, ErrKeySize) {
			t.Errorf("GetOrCreate() error = %v, want ErrKeySize", err)
		}
	})
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	s := NewKeyringStore("test-vault")

	if s.Present() {
		t.Fatal("Present() = true before any key stored")
	}

	key, err := s.GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if len(key) != crypto.KeySize {
		t.Fatalf("key length = %d, want %d", len(key), crypto.KeySize)
	}
	if !s.Present() {
		t.Error("Present() = false after GetOrCreate")
	}

	again, err := s.GetOrCreate()
	if err != nil {
		t.Fatalf("second GetOrCreate() error = %v", err)
	}
	if !bytes.Equal(key, again) {
		t.Error("keyring key changed between calls")
	}

	if err := s.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s.Present() {
		t.Error("Present() = true after Delete")
	}
}

func TestKeyringStoreSet(t *testing.T) {
	keyring.MockInit()
	s := NewKeyringStore("test-vault-set")

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	if err := s.Set(key); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.GetOrCreate()
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if !bytes.Equal(got, key) {
		t.Error("stored key differs from retrieved key")
	}

	if err := s.Set(make([]byte, 16)); !errors.Is(err, ErrKeySize) {
		t.Errorf("Set() with short key: error = %v, want ErrKeySize", err)
	}
}
