package cmd

import (
	"fmt"
	"os"
)

// Get prints the password stored under a label. Only the password goes
// to stdout, so the output can be piped straight into another tool.
func Get(opts Options, label string) {
	sess, err := newSession(opts, false)
	if err != nil {
		HandleError(err)
	}
	defer sess.Close()

	rec, err := sess.svc.Load()
	if err != nil {
		HandleError(err)
	}

	password, ok := rec[label]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no password stored for %q\n", label)
		os.Exit(1)
	}
	fmt.Println(password)
}
