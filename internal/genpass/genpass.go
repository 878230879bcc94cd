// Package genpass generates random passwords from selected character
// classes using crypto/rand.
package genpass

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// Character classes a password can draw from. Symbols is the full ASCII
// punctuation set.
const (
	Upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lower   = "abcdefghijklmnopqrstuvwxyz"
	Digits  = "0123456789"
	Symbols = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Length bounds for generated passwords.
const (
	MinLength     = 1
	MaxLength     = 72
	DefaultLength = 12
)

var (
	// ErrNoClasses is returned when every character class is disabled.
	ErrNoClasses = errors.New("no character classes enabled")
	// ErrLength is returned when the requested length is out of range.
	ErrLength = errors.New("password length out of range")
)

// Options selects the character classes Generate draws from.
type Options struct {
	Upper   bool
	Lower   bool
	Digits  bool
	Symbols bool
}

// DefaultOptions enables every character class.
func DefaultOptions() Options {
	return Options{Upper: true, Lower: true, Digits: true, Symbols: true}
}

// charset returns the combined alphabet of the enabled classes.
func (o Options) charset() string {
	var b strings.Builder
	if o.Upper {
		b.WriteString(Upper)
	}
	if o.Lower {
		b.WriteString(Lower)
	}
	if o.Digits {
		b.WriteString(Digits)
	}
	if o.Symbols {
		b.WriteString(Symbols)
	}
	return b.String()
}

// Generate returns a random password of the given length drawn from the
// enabled character classes. Each character is chosen uniformly with
// crypto/rand, so no position is biased toward any part of the alphabet.
func Generate(length int, opts Options) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", fmt.Errorf("%w: %d is not between %d and %d", ErrLength, length, MinLength, MaxLength)
	}
	alphabet := opts.charset()
	if alphabet == "" {
		return "", ErrNoClasses
	}

	max := big.NewInt(int64(len(alphabet)))
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		password[i] = alphabet[n.Int64()]
	}
	return string(password), nil
}
