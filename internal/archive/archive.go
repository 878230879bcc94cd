// Package archive keeps point-in-time copies of the encrypted vault
// blob in a BBolt database, so earlier states can be listed, compared
// and pruned. Blobs are stored as sealed, never as plaintext.
package archive

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	configBucket    = []byte("config")    // version, timestamps, vault identity - unencrypted
	indexBucket     = []byte("index")     // snapshot metadata for listing - unencrypted
	snapshotsBucket = []byte("snapshots") // sealed vault blobs keyed by sequence
)

// Config keys
var (
	configVersion  = []byte("version")
	configCreated  = []byte("created")
	configModified = []byte("modified")
	configVaultID  = []byte("vault_id")
)

// ErrNoSnapshot is returned when a requested snapshot does not exist.
var ErrNoSnapshot = errors.New("snapshot not found")

// Archive provides BBolt-based storage for vault snapshots
type Archive struct {
	db *bolt.DB
}

// Entry describes one snapshot in the archive listing.
type Entry struct {
	Seq     uint64
	TakenAt time.Time
	Size    int64
}

// Snapshot is a stored vault blob together with its metadata.
type Snapshot struct {
	Seq     uint64
	TakenAt time.Time
	Blob    []byte
}

// indexEntry is the JSON value kept in the index bucket so listings
// never have to touch the blobs themselves.
type indexEntry struct {
	TakenAt time.Time `json:"taken_at"`
	Size    int64     `json:"size"`
}

// Open opens an archive database, creating and initializing it on
// first use.
func Open(path string) (*Archive, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	a := &Archive{db: db}
	if err := a.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close closes the database
func (a *Archive) Close() error {
	return a.db.Close()
}

// Path returns the filesystem path of the archive database.
func (a *Archive) Path() string {
	return a.db.Path()
}

func (a *Archive) initialize() error {
	return a.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{configBucket, indexBucket, snapshotsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config := tx.Bucket(configBucket)
		if config.Get(configVersion) != nil {
			return nil
		}

		if err := config.Put(configVersion, []byte("1")); err != nil {
			return err
		}
		created, _ := time.Now().MarshalBinary()
		if err := config.Put(configCreated, created); err != nil {
			return err
		}
		return config.Put(configModified, created)
	})
}

// Record stores a copy of the sealed blob as the next snapshot and
// returns its sequence number.
func (a *Archive) Record(blob []byte, takenAt time.Time) (uint64, error) {
	var seq uint64
	err := a.db.Update(func(tx *bolt.Tx) error {
		snapshots := tx.Bucket(snapshotsBucket)

		var err error
		seq, err = snapshots.NextSequence()
		if err != nil {
			return err
		}
		if err := snapshots.Put(itob(seq), blob); err != nil {
			return err
		}

		meta, err := json.Marshal(indexEntry{TakenAt: takenAt, Size: int64(len(blob))})
		if err != nil {
			return err
		}
		if err := tx.Bucket(indexBucket).Put(itob(seq), meta); err != nil {
			return err
		}

		modified, _ := time.Now().MarshalBinary()
		return tx.Bucket(configBucket).Put(configModified, modified)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record snapshot: %w", err)
	}
	return seq, nil
}

// List returns all snapshots in the archive, oldest first.
func (a *Archive) List() ([]Entry, error) {
	var entries []Entry
	err := a.db.View(func(tx *bolt.Tx) error {
		index := tx.Bucket(indexBucket)
		return index.ForEach(func(k, v []byte) error {
			var meta indexEntry
			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("failed to decode index entry %d: %w", btoi(k), err)
			}
			entries = append(entries, Entry{Seq: btoi(k), TakenAt: meta.TakenAt, Size: meta.Size})
			return nil
		})
	})
	return entries, err
}

// Get returns the snapshot with the given sequence number.
func (a *Archive) Get(seq uint64) (*Snapshot, error) {
	var snap *Snapshot
	err := a.db.View(func(tx *bolt.Tx) error {
		blob := tx.Bucket(snapshotsBucket).Get(itob(seq))
		if blob == nil {
			return fmt.Errorf("%w: %d", ErrNoSnapshot, seq)
		}
		snap = &Snapshot{Seq: seq}
		// Make a copy since the slice is only valid during the transaction
		snap.Blob = append([]byte(nil), blob...)

		if meta := tx.Bucket(indexBucket).Get(itob(seq)); meta != nil {
			var entry indexEntry
			if err := json.Unmarshal(meta, &entry); err != nil {
				return fmt.Errorf("failed to decode index entry %d: %w", seq, err)
			}
			snap.TakenAt = entry.TakenAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Latest returns the most recent snapshot, or ErrNoSnapshot when the
// archive is empty.
func (a *Archive) Latest() (*Snapshot, error) {
	var seq uint64
	err := a.db.View(func(tx *bolt.Tx) error {
		k, _ := tx.Bucket(snapshotsBucket).Cursor().Last()
		if k == nil {
			return ErrNoSnapshot
		}
		seq = btoi(k)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a.Get(seq)
}

// Count returns the number of snapshots in the archive.
func (a *Archive) Count() (int, error) {
	var n int
	err := a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotsBucket).ForEach(func(k, v []byte) error {
			n++
			return nil
		})
	})
	return n, err
}

// Prune removes the oldest snapshots so that at most keep remain,
// returning the number removed. Sequence numbers are never reused.
func (a *Archive) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	var removed int
	err := a.db.Update(func(tx *bolt.Tx) error {
		snapshots := tx.Bucket(snapshotsBucket)
		index := tx.Bucket(indexBucket)

		var total int
		if err := snapshots.ForEach(func(k, v []byte) error {
			total++
			return nil
		}); err != nil {
			return err
		}
		drop := total - keep
		if drop <= 0 {
			return nil
		}

		// Collect first, delete after: mutating a bucket while
		// iterating it is not allowed.
		keys := make([][]byte, 0, drop)
		c := snapshots.Cursor()
		for k, _ := c.First(); k != nil && len(keys) < drop; k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := snapshots.Delete(k); err != nil {
				return err
			}
			if err := index.Delete(k); err != nil {
				return err
			}
		}
		removed = len(keys)

		modified, _ := time.Now().MarshalBinary()
		return tx.Bucket(configBucket).Put(configModified, modified)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return removed, nil
}

// VaultID returns the stable identity of this vault, or the empty
// string when none has been assigned yet.
func (a *Archive) VaultID() (string, error) {
	var id string
	err := a.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket(configBucket).Get(configVaultID); data != nil {
			id = string(data)
		}
		return nil
	})
	return id, err
}

// GetOrCreateVaultID returns the vault identity, assigning a fresh one
// on first use. Keyring entries are named by this identity, so it must
// stay stable for the life of the archive.
func (a *Archive) GetOrCreateVaultID() (string, error) {
	id, err := a.VaultID()
	if err != nil || id != "" {
		return id, err
	}

	id = uuid.NewString()
	err = a.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(configBucket).Put(configVaultID, []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("failed to store vault ID: %w", err)
	}
	return id, nil
}

// Modified returns the time of the last archive write.
func (a *Archive) Modified() (time.Time, error) {
	var modified time.Time
	err := a.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(configBucket).Get(configModified)
		if data == nil {
			return fmt.Errorf("modified time not found")
		}
		return modified.UnmarshalBinary(data)
	})
	return modified, err
}

// itob encodes a sequence number as a big-endian key so snapshots sort
// in insertion order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
