// Package crypto implements the vault token format for passvault.
//
// A token is the URL-safe base64 encoding of:
//
//	version (1 byte) || unix timestamp (8 bytes, big-endian) ||
//	nonce (24 bytes) || XChaCha20-Poly1305 ciphertext and tag
//
// The version/timestamp header is bound into the authentication tag as
// associated data, so tampering with the header fails verification the
// same way tampering with the ciphertext does. The timestamp records when
// the token was sealed and is recovered by Open for staleness reporting.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
