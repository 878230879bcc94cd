// Package vault persists a label→password record encrypted at rest.
//
// The package has two layers:
//   - Codec: Encode serializes a Record to canonical JSON and seals it
//     into a self-contained token (see internal/crypto); Decode verifies
//     and reverses it. Tampered, truncated or wrong-key blobs fail with
//     ErrIntegrity before any plaintext is released; an authenticated but
//     structurally invalid payload fails with ErrDecode.
//   - Service: Load/Save against a single blob file, obtaining the key
//     from a keystore.Store. A missing blob file on Load is the first-run
//     state and yields an empty Record; it is never conflated with an
//     integrity failure. Save replaces the blob file atomically (temp
//     file, fsync, rename) so a crash mid-write cannot leave a truncated
//     vault.
//
// The service is stateless between calls: callers own the in-memory
// Record, merge changes into it, and pass it back to Save, which
// re-encrypts the full record set.
//
// The key file and blob file carry no locking discipline. Concurrent
// processes racing through first-run key creation or overlapping saves
// are not serialized; multi-process callers must coordinate externally.
package vault
