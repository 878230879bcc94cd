// Package git provides git integration status checks for passvault.
//
// Checks performed:
//   - Whether the key file is tracked by git (must not be)
//   - Whether the key file is in .gitignore (should be)
//   - Whether the vault file is tracked by git (fine, contents stay sealed)
//
// These checks help users avoid accidentally committing the vault key.
package git
