package cmd

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"

	"github.com/passvault/passvault/internal/genpass"
	"github.com/passvault/passvault/internal/strength"
)

// Gen generates a random password. The password goes to stdout so it
// can be piped; everything else goes to stderr. With a save label the
// password is also stored in the vault.
func Gen(opts Options, length int, classes genpass.Options, copyOut, quiet bool, saveLabel string) {
	password, err := genpass.Generate(length, classes)
	if err != nil {
		HandleError(err)
	}

	fmt.Println(password)

	if !quiet {
		rating := strength.Check(password)
		fmt.Fprintf(os.Stderr, "strength: %s (%d/4), crack time %s\n",
			strength.Label(rating.Score), rating.Score, rating.CrackTimeDisplay)
	}

	if copyOut {
		if err := clipboard.WriteAll(password); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not copy to clipboard: %s\n", err)
		} else if !quiet {
			fmt.Fprintln(os.Stderr, "copied to clipboard")
		}
	}

	if saveLabel == "" {
		return
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

	_, existed := rec[saveLabel]
	rec[saveLabel] = password
	if err := sess.svc.Save(rec); err != nil {
		HandleError(err)
	}

	if !quiet {
		if existed {
			fmt.Fprintf(os.Stderr, "updated: %s\n", saveLabel)
		} else {
			fmt.Fprintf(os.Stderr, "saved: %s\n", saveLabel)
		}
	}
}
