package errors

import "errors"

// Lookup errors indicate the referenced keystore entry could not be selected.
var (
	// ErrNotFound indicates no entry exists for the requested identity.
	ErrNotFound = errors.New("identity not found in keystore")

	// ErrIdentityRequired indicates an identity must be named because the
	// keystore holds more than one entry.
	ErrIdentityRequired = errors.New("keystore holds several identities, specify which one")
)

// Input errors indicate the caller supplied unusable material.
var (
	// ErrInvalidSecret indicates the supplied secret is not a valid private key.
	ErrInvalidSecret = errors.New("invalid private key")

	// ErrMissingCredential indicates a password was required but not supplied.
	ErrMissingCredential = errors.New("password required")
)

// Cryptographic errors indicate failures while deriving keys or opening entries.
var (
	// ErrAuthenticationFailed indicates the ciphertext did not authenticate.
	// Wrong credentials and corrupted data are deliberately indistinguishable.
	ErrAuthenticationFailed = errors.New("decryption failed - incorrect password or corrupted data")

	// ErrVerificationMismatch indicates the decrypted key does not belong to
	// the identity it was stored under.
	ErrVerificationMismatch = errors.New("key verification failed - pubkey mismatch")

	// ErrKDFParams indicates the key derivation function rejected its parameters.
	ErrKDFParams = errors.New("invalid key derivation parameters")
)

// Storage errors indicate issues with the persisted keystore or the host.
var (
	// ErrFormat indicates the keystore file matches neither the current nor the legacy schema.
	ErrFormat = errors.New("unrecognized keystore format")

	// ErrHost indicates a filesystem or device identifier failure.
	ErrHost = errors.New("host error")
)

// Command errors are raised by the workflow and command layers.
var (
	// ErrInvalidIdentity indicates an identity argument is neither an npub nor a hex id.
	ErrInvalidIdentity = errors.New("invalid identity, expected npub or 64 hex characters")

	// ErrPasswordMismatch indicates the password confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidDateFormat indicates a date filter could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrCancelled indicates the user declined a confirmation prompt.
	ErrCancelled = errors.New("operation cancelled")
)
