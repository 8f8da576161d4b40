package workflows

import (
	"context"

	kerrors "github.com/podtards/mspkeys/internal/errors"
)

// RelabelOptions configures the relabel workflow.
type RelabelOptions struct {
	Identity string

	// Label replaces the current label. Nil or blank clears it.
	Label *string
}

// RelabelResult contains the outcome of a relabel operation.
type RelabelResult struct {
	Key KeyView

	// Previous is the label before the change.
	Previous *string
}

// Relabel changes the display label of an entry.
func Relabel(ctx context.Context, s *Session, opts RelabelOptions) (*RelabelResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := s.Audit.Begin("label")

	if opts.Identity == "" {
		s.Audit.Finish(entry, kerrors.ErrIdentityRequired)
		return nil, kerrors.ErrIdentityRequired
	}

	key, err := Lookup(s, opts.Identity)
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}
	entry.Identity = key.IdentityID

	info, err := s.Manager.Relabel(key.IdentityID, opts.Label)
	s.Audit.Finish(entry, err)
	if err != nil {
		return nil, err
	}

	return &RelabelResult{Key: viewOf(*info), Previous: key.Label}, nil
}
