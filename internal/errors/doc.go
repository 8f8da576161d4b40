// Package errors provides typed error values for the mspkeys keystore.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The command
// layer relies on this to turn a failed operation into a user-facing message
// without inspecting error text.
//
// # Error Categories
//
//   - Lookup errors: the referenced identity is absent (ErrNotFound, ErrIdentityRequired)
//   - Input errors: bad secrets or missing credentials (ErrInvalidSecret, ErrMissingCredential)
//   - Crypto errors: integrity and identity checks (ErrAuthenticationFailed, ErrVerificationMismatch, ErrKDFParams)
//   - Storage errors: the persisted record or the host (ErrFormat, ErrHost)
//
// # Usage
//
// Wrap host failures so that both the category and the cause stay reachable:
//
//	return fmt.Errorf("%w: reading keystore: %w", kerrors.ErrHost, err)
//
// Handle errors in the CLI layer:
//
//	secret, err := manager.Unlock(id, password)
//	if errors.Is(err, kerrors.ErrAuthenticationFailed) {
//	    // Show "incorrect password or corrupted data"
//	}
package errors
