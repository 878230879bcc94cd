package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Fingerprint returns a short digest of a password. Diff output uses it
// so a changed password shows up as a changed line without the password
// itself ever being printed.
func Fingerprint(password string) string {
	sum := sha256.Sum256([]byte(password))
	return "sha256:" + hex.EncodeToString(sum[:6])
}

// renderListing renders a record as sorted "label fingerprint" lines,
// the text form the diff operates on.
func renderListing(rec Record) string {
	var b strings.Builder
	for _, label := range rec.Labels() {
		fmt.Fprintf(&b, "%s %s\n", label, Fingerprint(rec[label]))
	}
	return b.String()
}

// DiffRecords diffs the label listings of two records and returns the
// changed lines with -/+ markers, or the empty string when the records
// are identical. Added and removed labels appear as added and removed
// lines; a changed password appears as a remove/add pair of the same
// label with different fingerprints. Passwords never appear in the
// output.
func DiffRecords(fromName, toName string, from, to Record) string {
	fromListing := renderListing(from)
	toListing := renderListing(to)
	if fromListing == toListing {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff over the listings
	a, b, lineArray := dmp.DiffLinesToChars(fromListing, toListing)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var result strings.Builder
	fmt.Fprintf(&result, "--- %s\n", fromName)
	fmt.Fprintf(&result, "+++ %s\n", toName)
	for _, d := range diffs {
		var sign byte
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sign = '-'
		case diffmatchpatch.DiffInsert:
			sign = '+'
		default:
			continue
		}
		for _, line := range splitLines(d.Text) {
			result.WriteByte(sign)
			result.WriteByte(' ')
			result.WriteString(line)
			result.WriteByte('\n')
		}
	}
	return result.String()
}

// splitLines splits diff text into lines, dropping the empty trailing
// element left by the final newline.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
