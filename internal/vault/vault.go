package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/passvault/passvault/internal/crypto"
	"github.com/passvault/passvault/internal/keystore"
)

// FilePermSecure is the mode for the blob file: owner read/write only.
const FilePermSecure = 0600

// Snapshotter records each saved blob into a snapshot history.
type Snapshotter interface {
	Record(blob []byte, takenAt time.Time) (uint64, error)
}

// Service is the load/save contract over a single encrypted blob file.
// It holds no record state between calls.
type Service struct {
	keys     keystore.Store
	blobPath string
	history  Snapshotter
}

// New creates a vault service persisting to blobPath with keys from keys.
func New(keys keystore.Store, blobPath string) *Service {
	return &Service{keys: keys, blobPath: blobPath}
}

// NewWithHistory is New plus a snapshot hook: every successful Save also
// records the new blob in history.
func NewWithHistory(keys keystore.Store, blobPath string, history Snapshotter) *Service {
	return &Service{keys: keys, blobPath: blobPath, history: history}
}

// Load reads and decrypts the vault. A missing blob file is the first-run
// state and yields an empty record; every other failure, integrity
// failures included, propagates so that tampering is never mistaken for
// an empty vault. The key is created on first use.
func (s *Service) Load() (Record, error) {
	key, err := s.keys.GetOrCreate()
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	blob, err := os.ReadFile(s.blobPath)
	if os.IsNotExist(err) {
		return Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}
	return Decode(blob, key)
}

// Save encrypts rec and replaces the blob file with the result. The write
// goes through a temp file in the same directory followed by a rename, so
// the blob file is only ever observed in its old or its new complete
// state. When a snapshot history is attached the new blob is recorded
// after the file write; a history failure is reported but the vault file
// has already been updated at that point.
func (s *Service) Save(rec Record) error {
	key, err := s.keys.GetOrCreate()
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(key)

	blob, err := Encode(rec, key)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.blobPath, blob, FilePermSecure); err != nil {
		return fmt.Errorf("failed to write vault file: %w", err)
	}

	if s.history != nil {
		if _, err := s.history.Record(blob, time.Now()); err != nil {
			return fmt.Errorf("vault saved but snapshot not recorded: %w", err)
		}
	}
	return nil
}

// Status describes the persisted blob without decrypting it. SealedAt
// comes from the token header and is zero when the file is absent or not
// a token; it is unverified until a Load succeeds.
type Status struct {
	Path     string
	Present  bool
	Size     int64
	SealedAt time.Time
}

// Status reports on the blob file. It never touches the key store.
func (s *Service) Status() (*Status, error) {
	st := &Status{Path: s.blobPath}

	info, err := os.Stat(s.blobPath)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat vault file: %w", err)
	}
	st.Present = true
	st.Size = info.Size()

	blob, err := os.ReadFile(s.blobPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}
	if sealedAt, err := crypto.SealedAt(blob); err == nil {
		st.SealedAt = sealedAt
	}
	return st, nil
}

// writeFileAtomic writes data to path through a temp file in the same
// directory, syncing before the rename, so path is never half-written.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	tmpPath = ""
	return nil
}
