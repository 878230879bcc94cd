package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/passvault/passvault/internal/archive"
	"github.com/passvault/passvault/internal/crypto"
	"github.com/passvault/passvault/internal/vault"
)

// Diff compares two vault states by label and password fingerprint.
// A sequence number selects a snapshot; zero means the latest snapshot
// for from and the current vault for to. Passwords never appear in the
// output.
func Diff(opts Options, from, to uint64) {
	sess, err := newSession(opts, false)
	if err != nil {
		HandleError(err)
	}
	defer sess.Close()

	if !sess.historyExists() {
		fmt.Println("no snapshots recorded")
		return
	}
	hist, err := sess.ensureHistory()
	if err != nil {
		HandleError(err)
	}

	// Snapshots hold sealed blobs, so the vault key opens them too
	key, err := sess.keys.GetOrCreate()
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(key)

	var fromSnap *archive.Snapshot
	if from == 0 {
		fromSnap, err = hist.Latest()
		if errors.Is(err, archive.ErrNoSnapshot) {
			fmt.Println("no snapshots recorded")
			return
		}
	} else {
		fromSnap, err = hist.Get(from)
	}
	if err != nil {
		HandleError(err)
	}

	fromRec, err := vault.Decode(fromSnap.Blob, key)
	if err != nil {
		HandleError(err)
	}
	fromName := snapshotName(fromSnap)

	toRec := vault.Record{}
	toName := "current"
	if to == 0 {
		toRec, err = sess.svc.Load()
		if err != nil {
			HandleError(err)
		}
	} else {
		toSnap, err := hist.Get(to)
		if err != nil {
			HandleError(err)
		}
		toRec, err = vault.Decode(toSnap.Blob, key)
		if err != nil {
			HandleError(err)
		}
		toName = snapshotName(toSnap)
	}

	out := vault.DiffRecords(fromName, toName, fromRec, toRec)
	if out == "" {
		fmt.Println("no changes")
		return
	}
	fmt.Print(out)
}

func snapshotName(snap *archive.Snapshot) string {
	return fmt.Sprintf("snapshot %d (%s)", snap.Seq, snap.TakenAt.Format(time.RFC3339))
}
