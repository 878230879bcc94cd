package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/passvault/passvault/internal/archive"
	"github.com/passvault/passvault/internal/crypto"
	"github.com/passvault/passvault/internal/keystore"
)

// KeyringSave copies the vault key into the OS keyring, creating the
// key file and the vault identity on first use.
func KeyringSave(opts Options) {
	files := keystore.NewFileStore(filepath.Join(opts.Dir, KeyFile))
	key, err := files.GetOrCreate()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(key)

	// Keyring entries are named by the vault identity from the archive
	hist, err := archive.Open(filepath.Join(opts.Dir, HistoryFile))
	if err != nil {
		HandleError(err)
	}
	defer hist.Close()

	vaultID, err := hist.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keystore.NewKeyringStore(vaultID).Set(key); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Key saved to keyring")
	fmt.Println("Run commands with -keyring to use it")
}

// KeyringDelete removes the vault key from the OS keyring
func KeyringDelete(opts Options) {
	vaultID := storedVaultID(opts)
	if vaultID == "" {
		fmt.Println("No key stored in keyring")
		return
	}

	if err := keystore.NewKeyringStore(vaultID).Delete(); err != nil {
		fmt.Println("No key stored in keyring")
		return
	}

	fmt.Println("Key removed from keyring")
}

// KeyringStatus checks if a vault key is stored in the keyring
func KeyringStatus(opts Options) {
	vaultID := storedVaultID(opts)
	if vaultID == "" {
		fmt.Println("Key: not stored")
		return
	}

	if keystore.NewKeyringStore(vaultID).Present() {
		fmt.Println("Key: stored in OS keyring")
	} else {
		fmt.Println("Key: not stored")
	}
}

// storedVaultID returns the vault identity already on record, or the
// empty string. It never creates an archive or an identity.
func storedVaultID(opts Options) string {
	histPath := filepath.Join(opts.Dir, HistoryFile)
	if _, err := os.Stat(histPath); err != nil {
		return ""
	}

	hist, err := archive.Open(histPath)
	if err != nil {
		return ""
	}
	defer hist.Close()

	vaultID, err := hist.VaultID()
	if err != nil {
		return ""
	}
	return vaultID
}
