package workflows

import (
	"context"

	kerrors "github.com/podtards/mspkeys/internal/errors"
)

// RemoveResult contains the outcome of a remove operation.
type RemoveResult struct {
	// Key is the entry that was deleted.
	Key KeyView
}

// Remove deletes one identity from the keystore. The identity is required.
//
// Returns ErrNotFound if the identity is not stored.
func Remove(ctx context.Context, s *Session, ref string) (*RemoveResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := s.Audit.Begin("remove")

	if ref == "" {
		s.Audit.Finish(entry, kerrors.ErrIdentityRequired)
		return nil, kerrors.ErrIdentityRequired
	}

	key, err := Lookup(s, ref)
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}
	entry.Identity = key.IdentityID
	entry.Mode = string(key.Mode)

	err = s.Manager.Remove(key.IdentityID)
	s.Audit.Finish(entry, err)
	if err != nil {
		return nil, err
	}

	return &RemoveResult{Key: *key}, nil
}
