package cmd

import (
	"fmt"
	"time"

	"github.com/passvault/passvault/internal/git"
)

// Status reports the state of the vault directory: the vault file, the
// key backend, the snapshot archive and how git treats the files. It
// never creates keys or vault files; only -keyring has a side effect,
// assigning the vault identity the keyring entry is named by.
func Status(opts Options) {
	sess, err := newSession(opts, false)
	if err != nil {
		HandleError(err)
	}
	defer sess.Close()

	st, err := sess.svc.Status()
	if err != nil {
		HandleError(err)
	}

	if st.Present {
		if st.SealedAt.IsZero() {
			fmt.Printf("vault: %s (%s)\n", VaultFile, formatSize(st.Size))
		} else {
			fmt.Printf("vault: %s (%s, sealed %s, %s)\n",
				VaultFile, formatSize(st.Size), st.SealedAt.Format(time.RFC3339), formatAge(st.SealedAt))
		}
	} else {
		fmt.Printf("vault: no %s found\n", VaultFile)
		fmt.Println("Run 'passvault set <label>' or 'passvault gen -save <label>' to create one")
	}

	fmt.Printf("key: %s\n", sess.keyDesc)

	// Opening the vault needs the key, and asking a backend for its key
	// creates one on first use. Only count entries when both halves are
	// already there.
	if st.Present && sess.keyPresent {
		if rec, err := sess.svc.Load(); err != nil {
			fmt.Printf("entries: unreadable (%s)\n", err)
		} else {
			fmt.Printf("entries: %d\n", len(rec))
		}
	}

	if sess.historyExists() {
		if hist, err := sess.ensureHistory(); err != nil {
			fmt.Printf("history: unavailable (%s)\n", err)
		} else if count, err := hist.Count(); err != nil {
			fmt.Printf("history: unavailable (%s)\n", err)
		} else {
			fmt.Printf("history: %d snapshot(s)\n", count)
		}
	} else {
		fmt.Println("history: none")
	}

	if out := git.Format(git.Check(sess.keyPath(), sess.blobPath()), KeyFile, VaultFile); out != "" {
		fmt.Print(out)
	}
}

// formatAge renders how long ago t was, at coarse granularity.
func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
