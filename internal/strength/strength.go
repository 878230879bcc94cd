// Package strength estimates password strength with the zxcvbn
// estimator, which scores realistic guessing attacks (dictionary words,
// keyboard walks, dates, repeats) rather than raw character entropy.
package strength

import (
	zxcvbn "github.com/nbutton23/zxcvbn-go"
)

// Rating is the result of scoring a password.
type Rating struct {
	Score            int     // 0 (weakest) to 4 (strongest)
	Entropy          float64 // estimated entropy in bits
	CrackTime        float64 // estimated seconds to crack
	CrackTimeDisplay string  // human-readable form of CrackTime
	Advice           string  // short suggestion, empty for strong passwords
}

// advice by score; strong passwords need none.
var advice = [5]string{
	"trivially guessable, use a generated password instead",
	"too close to common words or patterns, add length and variety",
	"a few more characters or an extra word would help",
	"",
	"",
}

// Check scores a password. Extra user inputs (labels, usernames, site
// names) are treated as known context and penalized when the password
// is built from them.
func Check(password string, userInputs ...string) Rating {
	result := zxcvbn.PasswordStrength(password, userInputs)

	score := result.Score
	if score < 0 {
		score = 0
	}
	if score > 4 {
		score = 4
	}
	return Rating{
		Score:            score,
		Entropy:          result.Entropy,
		CrackTime:        result.CrackTime,
		CrackTimeDisplay: result.CrackTimeDisplay,
		Advice:           advice[score],
	}
}

// Label describes a score in words.
func Label(score int) string {
	switch {
	case score <= 0:
		return "very weak"
	case score == 1:
		return "weak"
	case score == 2:
		return "moderate"
	case score == 3:
		return "strong"
	default:
		return "very strong"
	}
}
