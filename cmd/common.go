package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/term"

	"github.com/passvault/passvault/internal/archive"
	"github.com/passvault/passvault/internal/crypto"
	"github.com/passvault/passvault/internal/keystore"
	"github.com/passvault/passvault/internal/vault"
)

// File names inside the vault directory.
const (
	KeyFile     = "secret.key"
	VaultFile   = "passwords.enc"
	HistoryFile = ".passvault.history"
)

// Options carries the flags shared by every command.
type Options struct {
	Dir        string // vault directory
	UseKeyring bool   // resolve the key through the OS keyring
	NoHistory  bool   // skip snapshot recording on writes
}

// session wires one command invocation to the vault: it resolves the
// key store and lazily opens the snapshot archive. The archive file is
// locked while open, so a command builds exactly one session and the
// session holds at most one archive handle.
type session struct {
	opts       Options
	keys       keystore.Store
	svc        *vault.Service
	history    *archive.Archive
	keyDesc    string // where the key comes from, for status output
	keyPresent bool   // key already exists, no first-use creation needed
}

func newSession(opts Options, forUpdate bool) (*session, error) {
	s := &session{opts: opts}
	if err := s.resolveKeys(); err != nil {
		s.Close()
		return nil, err
	}

	if forUpdate && !opts.NoHistory {
		if _, err := s.ensureHistory(); err != nil {
			s.Close()
			return nil, err
		}
		s.svc = vault.NewWithHistory(s.keys, s.blobPath(), s.history)
	} else {
		s.svc = vault.New(s.keys, s.blobPath())
	}
	return s, nil
}

// resolveKeys picks the key backend: the PASSVAULT_KEY environment
// variable wins, then the OS keyring when requested, then the key file.
func (s *session) resolveKeys() error {
	if keystore.EnvPresent() {
		s.keys = keystore.EnvStore{}
		s.keyDesc = keystore.EnvKey + " environment variable"
		s.keyPresent = true
		return nil
	}

	if s.opts.UseKeyring {
		// Keyring entries are named by the vault identity, which
		// lives in the archive.
		hist, err := s.ensureHistory()
		if err != nil {
			return err
		}
		vaultID, err := hist.GetOrCreateVaultID()
		if err != nil {
			return err
		}
		ks := keystore.NewKeyringStore(vaultID)
		s.keys = ks
		if ks.Present() {
			s.keyDesc = "OS keyring"
			s.keyPresent = true
		} else {
			s.keyDesc = "OS keyring (created on first use)"
		}
		return nil
	}

	fs := keystore.NewFileStore(s.keyPath())
	s.keys = fs
	if fs.Exists() {
		s.keyDesc = fmt.Sprintf("%s (present)", KeyFile)
		s.keyPresent = true
	} else {
		s.keyDesc = fmt.Sprintf("%s (created on first use)", KeyFile)
	}
	return nil
}

// ensureHistory opens the snapshot archive, creating it on first use.
func (s *session) ensureHistory() (*archive.Archive, error) {
	if s.history != nil {
		return s.history, nil
	}
	hist, err := archive.Open(s.historyPath())
	if err != nil {
		return nil, err
	}
	s.history = hist
	return hist, nil
}

// historyExists reports whether the archive file is already on disk, so
// read-only commands can answer without creating one.
func (s *session) historyExists() bool {
	_, err := os.Stat(s.historyPath())
	return err == nil
}

func (s *session) Close() {
	if s.history != nil {
		s.history.Close()
		s.history = nil
	}
}

func (s *session) keyPath() string {
	return filepath.Join(s.opts.Dir, KeyFile)
}

func (s *session) blobPath() string {
	return filepath.Join(s.opts.Dir, VaultFile)
}

func (s *session) historyPath() string {
	return filepath.Join(s.opts.Dir, HistoryFile)
}

// readSecret reads a password from the terminal without echoing
func readSecret(prompt string) ([]byte, error) {
	fmt.Print(prompt)

	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return secret, nil
}

// readSecretConfirm reads a password twice and ensures both match
func readSecretConfirm() ([]byte, error) {
	first, err := readSecret("Enter password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(first)

	second, err := readSecret("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(second)

	if !crypto.ConstantTimeCompare(first, second) {
		return nil, fmt.Errorf("passwords do not match")
	}

	// Return a copy of the password
	result := make([]byte, len(first))
	copy(result, first)
	return result, nil
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrIntegrity):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The key does not match this vault, or the vault file was modified\n")
	case errors.Is(err, keystore.ErrKeySize):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "The key must be exactly %d raw bytes\n", crypto.KeySize)
	case errors.Is(err, archive.ErrNoSnapshot):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use 'passvault history' to list available snapshots\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
