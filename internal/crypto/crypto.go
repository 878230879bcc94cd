package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	KeySize      = 32                          // XChaCha20-Poly1305 key size
	NonceSize    = chacha20poly1305.NonceSizeX // 24-byte extended nonce
	TagSize      = chacha20poly1305.Overhead   // Poly1305 tag size
	TokenVersion = 0x01                        // current token format version

	headerSize   = 1 + 8 // version byte + big-endian unix timestamp
	minTokenSize = headerSize + NonceSize + TagSize
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrAuthFailed   = errors.New("authentication failed")
)

// GenerateKey generates a new random 256-bit vault key.
func GenerateKey() ([]byte, error) {
	return GenerateRandom(KeySize)
}

// Seal encrypts plaintext under key and returns a self-contained token:
// the URL-safe base64 encoding of version || timestamp || nonce ||
// ciphertext+tag. The version/timestamp header is authenticated as
// associated data, so the token carries everything needed to decrypt and
// verify it except the key.
func Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	token := make([]byte, headerSize, minTokenSize+len(plaintext))
	token[0] = TokenVersion
	binary.BigEndian.PutUint64(token[1:headerSize], uint64(time.Now().Unix()))

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	token = append(token, nonce...)

	// Encrypt and authenticate, binding the header
	token = aead.Seal(token, nonce, plaintext, token[:headerSize])

	encoded := make([]byte, base64.URLEncoding.EncodedLen(len(token)))
	base64.URLEncoding.Encode(encoded, token)
	return encoded, nil
}

// Open authenticates and decrypts a token produced by Seal. It returns the
// plaintext together with the time the token was sealed. The plaintext is
// only released after the authentication tag verifies; any tampering with
// the encoding, header, nonce or ciphertext fails with ErrInvalidToken or
// ErrAuthFailed.
func Open(key, encoded []byte) ([]byte, time.Time, error) {
	token := make([]byte, base64.URLEncoding.DecodedLen(len(encoded)))
	n, err := base64.URLEncoding.Decode(token, encoded)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: not a base64 token", ErrInvalidToken)
	}
	token = token[:n]

	if len(token) < minTokenSize {
		return nil, time.Time{}, fmt.Errorf("%w: truncated", ErrInvalidToken)
	}
	if token[0] != TokenVersion {
		return nil, time.Time{}, fmt.Errorf("%w: unsupported version %#x", ErrInvalidToken, token[0])
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := token[headerSize : headerSize+NonceSize]
	box := token[headerSize+NonceSize:]

	// Decrypt and verify, including the header
	plaintext, err := aead.Open(nil, nonce, box, token[:headerSize])
	if err != nil {
		return nil, time.Time{}, ErrAuthFailed
	}

	sealedAt := time.Unix(int64(binary.BigEndian.Uint64(token[1:headerSize])), 0).UTC()
	return plaintext, sealedAt, nil
}

// SealedAt reads the timestamp from a token header without opening it.
// The header is only verified during Open, so treat the result as
// advisory until the token has been opened under the right key.
func SealedAt(encoded []byte) (time.Time, error) {
	token := make([]byte, base64.URLEncoding.DecodedLen(len(encoded)))
	n, err := base64.URLEncoding.Decode(token, encoded)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: not a base64 token", ErrInvalidToken)
	}
	token = token[:n]

	if len(token) < minTokenSize {
		return time.Time{}, fmt.Errorf("%w: truncated", ErrInvalidToken)
	}
	if token[0] != TokenVersion {
		return time.Time{}, fmt.Errorf("%w: unsupported version %#x", ErrInvalidToken, token[0])
	}
	return time.Unix(int64(binary.BigEndian.Uint64(token[1:headerSize])), 0).UTC(), nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
