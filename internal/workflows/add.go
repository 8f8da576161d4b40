package workflows

import (
	"context"

	"github.com/podtards/mspkeys/internal/keystore"
)

// AddOptions configures the add workflow.
type AddOptions struct {
	// Secret is the nsec or hex private key. The caller wipes it.
	Secret []byte

	// Device selects device protection instead of a password.
	Device bool

	// Password protects the entry unless Device is set. The caller wipes it.
	Password []byte

	Label *string
}

// AddResult contains the outcome of an add operation.
type AddResult struct {
	Key KeyView

	// Replaced is true when an entry for the same identity already existed.
	Replaced bool
}

// Add encrypts a private key into the keystore.
//
// Returns ErrInvalidSecret if the secret is not a private key.
// Returns ErrMissingCredential if a password entry has no password.
func Add(ctx context.Context, s *Session, opts AddOptions) (*AddResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mode := keystore.ModePassword
	if opts.Device {
		mode = keystore.ModeDevice
	}

	entry := s.Audit.Begin("add")
	entry.Mode = string(mode)

	before, err := s.Manager.List()
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}

	info, err := s.Manager.AddProtected(opts.Secret, keystore.AddOptions{
		Mode:     mode,
		Password: opts.Password,
		Label:    opts.Label,
	})
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}

	entry.Identity = info.IdentityID
	s.Audit.Finish(entry, nil)

	result := &AddResult{Key: viewOf(*info)}
	for _, b := range before {
		if b.IdentityID == info.IdentityID {
			result.Replaced = true
			break
		}
	}
	return result, nil
}
