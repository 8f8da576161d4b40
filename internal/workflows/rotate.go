package workflows

import (
	"context"

	"github.com/podtards/mspkeys/internal/keystore"
)

// RotateOptions configures the rotate workflow.
type RotateOptions struct {
	// Identity is an npub or hex id. Empty selects the only entry.
	Identity string

	// Current unlocks the entry if it is password protected.
	Current []byte

	// Next protects the entry with a new password. Empty switches it to
	// device protection.
	Next []byte
}

// RotateResult contains the outcome of a rotate operation.
type RotateResult struct {
	Key KeyView

	// From is the protection mode before rotation.
	From keystore.Mode
}

// Rotate re-encrypts an entry under new credentials. The identity and label
// are kept; the entry gets a fresh nonce, salt and creation time.
//
// Returns ErrAuthenticationFailed if the current credentials are wrong.
func Rotate(ctx context.Context, s *Session, opts RotateOptions) (*RotateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := s.Audit.Begin("rotate")

	key, err := Lookup(s, opts.Identity)
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}
	entry.Identity = key.IdentityID

	info, err := s.Manager.RotateProtection(key.IdentityID, opts.Current, opts.Next)
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}

	entry.Mode = string(info.Mode)
	s.Audit.Finish(entry, nil)

	return &RotateResult{Key: viewOf(*info), From: key.Mode}, nil
}
