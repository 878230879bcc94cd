package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/passvault/passvault/internal/archive"
)

// History lists the recorded vault snapshots, oldest first. With keep
// set to zero or more, older snapshots are pruned down to that count
// before listing. It does not create an archive where none exists.
func History(opts Options, keep int) {
	histPath := filepath.Join(opts.Dir, HistoryFile)
	if _, err := os.Stat(histPath); err != nil {
		fmt.Println("no snapshots recorded")
		return
	}

	hist, err := archive.Open(histPath)
	if err != nil {
		HandleError(err)
	}
	defer hist.Close()

	if keep >= 0 {
		removed, err := hist.Prune(keep)
		if err != nil {
			HandleError(err)
		}
		fmt.Printf("pruned %d snapshot(s)\n", removed)
	}

	entries, err := hist.List()
	if err != nil {
		HandleError(err)
	}
	if len(entries) == 0 {
		fmt.Println("no snapshots recorded")
		return
	}

	for _, e := range entries {
		fmt.Printf("%4d  %s  %s\n", e.Seq, e.TakenAt.Format(time.RFC3339), formatSize(e.Size))
	}
}
