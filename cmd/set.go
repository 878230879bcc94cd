package cmd

import (
	"fmt"
	"os"

	"github.com/passvault/passvault/internal/crypto"
	"github.com/passvault/passvault/internal/strength"
)

// Set stores a password under a label, replacing any previous value.
// An empty password argument triggers an interactive prompt.
func Set(opts Options, label, password string) {
	if label == "" {
		fmt.Fprintf(os.Stderr, "Error: label must not be empty\n")
		os.Exit(1)
	}

	if password == "" {
		secret, err := readSecretConfirm()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		password = string(secret)
		crypto.ClearBytes(secret)
	}
	if password == "" {
		fmt.Fprintf(os.Stderr, "Error: password must not be empty\n")
		os.Exit(1)
	}

	// Warn but store anyway: the user may be recording an existing
	// credential rather than choosing a new one.
	rating := strength.Check(password, label)
	if rating.Score <= 1 {
		fmt.Fprintf(os.Stderr, "warning: %s password (%d/4)", strength.Label(rating.Score), rating.Score)
		if rating.Advice != "" {
			fmt.Fprintf(os.Stderr, ", %s", rating.Advice)
		}
		fmt.Fprintln(os.Stderr)
	}

	sess, err := newSession(opts, true)
	if err != nil {
		HandleError(err)
	}
	defer sess.Close()

	rec, err := sess.svc.Load()
	if err != nil {
		HandleError(err)
	}

	_, existed := rec[label]
	rec[label] = password
	if err := sess.svc.Save(rec); err != nil {
		HandleError(err)
	}

	if existed {
		fmt.Printf("updated: %s\n", label)
	} else {
		fmt.Printf("saved: %s\n", label)
	}
}
