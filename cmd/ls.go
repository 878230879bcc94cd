package cmd

import (
	"fmt"
)

// Ls lists the stored labels in sorted order, one per line. Passwords
// are never shown.
func Ls(opts Options) {
	sess, err := newSession(opts, false)
	if err != nil {
		HandleError(err)
	}
	defer sess.Close()

	rec, err := sess.svc.Load()
	if err != nil {
		HandleError(err)
	}

	labels := rec.Labels()
	if len(labels) == 0 {
		fmt.Println("vault is empty")
		return
	}
	for _, label := range labels {
		fmt.Println(label)
	}
}
