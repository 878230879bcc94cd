package cmd

import (
	"fmt"
	"os"
)

// Rm removes labels from the vault. Unknown labels are reported but do
// not stop the others from being removed.
func Rm(opts Options, labels []string) {
	if len(labels) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one label\n")
		fmt.Fprintf(os.Stderr, "Usage: passvault rm <label> [label...]\n")
		os.Exit(1)
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

	removed := 0
	for _, label := range labels {
		if _, ok := rec[label]; !ok {
			fmt.Fprintf(os.Stderr, "warning: no password stored for %q\n", label)
			continue
		}
		delete(rec, label)
		fmt.Printf("removed: %s\n", label)
		removed++
	}

	if removed == 0 {
		fmt.Println("nothing to remove")
		return
	}

	if err := sess.svc.Save(rec); err != nil {
		HandleError(err)
	}
}
