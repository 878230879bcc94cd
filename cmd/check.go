package cmd

import (
	"fmt"
	"os"

	"github.com/passvault/passvault/internal/crypto"
	"github.com/passvault/passvault/internal/strength"
)

// Check scores a password without touching the vault. An empty password
// argument triggers an interactive prompt.
func Check(password string) {
	if password == "" {
		secret, err := readSecret("Password to check: ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		password = string(secret)
		crypto.ClearBytes(secret)
	}
	if password == "" {
		fmt.Fprintf(os.Stderr, "Error: no password given\n")
		os.Exit(1)
	}

	rating := strength.Check(password)
	fmt.Printf("score: %d/4 (%s)\n", rating.Score, strength.Label(rating.Score))
	fmt.Printf("crack time: %s\n", rating.CrackTimeDisplay)
	if rating.Advice != "" {
		fmt.Printf("advice: %s\n", rating.Advice)
	}
}
