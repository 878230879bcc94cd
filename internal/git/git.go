package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status describes how git treats the vault files
type Status struct {
	IsRepo      bool
	KeyTracked  bool // key file tracked by git (critical)
	KeyIgnored  bool // key file in .gitignore (good)
	BlobTracked bool // vault file tracked by git (acceptable, stays sealed)
	BlobIgnored bool // vault file in .gitignore
}

// IsRepo checks if the directory is inside a git repository
func IsRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// Check inspects how git treats the key and vault files. Both paths
// must point into the same directory.
func Check(keyPath, blobPath string) *Status {
	workDir := filepath.Dir(keyPath)

	status := &Status{}
	if !IsRepo(workDir) {
		return status
	}
	status.IsRepo = true

	status.KeyTracked = IsTracked(workDir, filepath.Base(keyPath))
	status.KeyIgnored = IsIgnored(workDir, filepath.Base(keyPath))
	status.BlobTracked = IsTracked(workDir, filepath.Base(blobPath))
	status.BlobIgnored = IsIgnored(workDir, filepath.Base(blobPath))
	return status
}

// Format renders the git status for display. Returns the empty string
// outside a git repository.
func Format(status *Status, keyName, blobName string) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit integration:\n")

	// A tracked key file means the secret is in the repository history
	switch {
	case status.KeyTracked:
		result.WriteString(fmt.Sprintf("   error: %s is tracked by git (run: git rm --cached %s)\n", keyName, keyName))
	case status.KeyIgnored:
		result.WriteString(fmt.Sprintf("   ok: %s is in .gitignore\n", keyName))
	default:
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore (add to .gitignore)\n", keyName))
	}

	// The vault file only ever holds sealed data, so tracking it is a
	// legitimate way to sync or back up the vault
	switch {
	case status.BlobTracked:
		result.WriteString(fmt.Sprintf("   ok: %s is tracked by git (contents stay sealed)\n", blobName))
	case status.BlobIgnored:
		result.WriteString(fmt.Sprintf("   ok: %s is in .gitignore\n", blobName))
	default:
		result.WriteString(fmt.Sprintf("   ok: %s not tracked by git\n", blobName))
	}

	return result.String()
}
