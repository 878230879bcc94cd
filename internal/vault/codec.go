package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/passvault/passvault/internal/crypto"
)

var (
	// ErrIntegrity means the blob failed authentication: wrong key,
	// corrupted or truncated data, or input that is not a vault token.
	ErrIntegrity = errors.New("vault integrity check failed")
	// ErrDecode means the blob authenticated but its plaintext is not a
	// valid record, which points at format drift rather than tampering.
	ErrDecode = errors.New("malformed vault payload")
)

// Record maps labels to passwords. Labels are caller-chosen and unique;
// assigning to an existing label replaces its password.
type Record map[string]string

// Labels returns the record's labels in sorted order.
func (r Record) Labels() []string {
	labels := make([]string, 0, len(r))
	for label := range r {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Encode serializes rec to canonical JSON and seals it under key. The
// returned blob is self-contained: together with the key it is all that
// is needed to recover the record.
func Encode(rec Record, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	defer crypto.ClearBytes(plaintext)

	blob, err := crypto.Seal(key, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to seal record: %w", err)
	}
	return blob, nil
}

// Decode verifies blob under key and returns the record it carries. No
// plaintext is examined before the authentication tag checks out: any
// bit flip, truncation or foreign key yields ErrIntegrity, never a
// partial or garbled record.
func Decode(blob, key []byte) (Record, error) {
	plaintext, _, err := crypto.Open(key, blob)
	if err != nil {
		if errors.Is(err, crypto.ErrInvalidToken) || errors.Is(err, crypto.ErrAuthFailed) {
			return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
		}
		return nil, err
	}
	defer crypto.ClearBytes(plaintext)

	var rec Record
	if err := json.Unmarshal(plaintext, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if rec == nil {
		rec = Record{}
	}
	return rec, nil
}
