// Package audit records keystore operations in an append-only log.
//
// Recording is opt-in through the [audit] section of config.toml. When it is
// on, each keystore operation run from the command line appends one entry,
// whether it succeeded or failed.
//
// # Log Format
//
// The log is JSON Lines (one JSON object per line) next to the keystore:
//
//	<data-dir>/audit.jsonl
//
// Each entry contains:
//   - A random entry id and a UTC timestamp with microseconds
//   - The system user that ran the operation
//   - The operation name, the identity and protection mode it touched
//   - Whether it succeeded, and the error message if it did not
//
// Entries never contain private keys, passwords or derived keys.
//
// # Failure Handling
//
// Recording is best-effort. A keystore operation never fails because its
// audit entry could not be written.
package audit
