package workflows

import (
	"context"

	"github.com/podtards/mspkeys/internal/secmem"
)

// UnlockOptions configures the unlock workflow.
type UnlockOptions struct {
	// Identity is an npub or hex id. Empty selects the only entry.
	Identity string

	// Password is required for password entries. The caller wipes it.
	Password []byte
}

// UnlockResult contains the outcome of an unlock operation.
type UnlockResult struct {
	Key KeyView

	// Secret is the verified private key. The caller must Destroy it.
	Secret *secmem.Secret
}

// Unlock decrypts and verifies a stored private key.
//
// Returns ErrNotFound or ErrIdentityRequired if no entry can be selected.
// Returns ErrMissingCredential if a password entry has no password.
// Returns ErrAuthenticationFailed if the password is wrong or the data corrupt.
// Returns ErrVerificationMismatch if the key does not match its identity.
func Unlock(ctx context.Context, s *Session, opts UnlockOptions) (*UnlockResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := s.Audit.Begin("unlock")

	key, err := Lookup(s, opts.Identity)
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}
	entry.Identity = key.IdentityID
	entry.Mode = string(key.Mode)

	secret, err := s.Manager.Unlock(key.IdentityID, opts.Password)
	s.Audit.Finish(entry, err)
	if err != nil {
		return nil, err
	}

	return &UnlockResult{Key: *key, Secret: secret}, nil
}
