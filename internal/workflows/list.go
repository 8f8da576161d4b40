package workflows

import (
	"context"
)

// ListResult contains the outcome of a list operation.
type ListResult struct {
	// Path is the keystore file the keys were read from.
	Path string `json:"path"`

	Keys []KeyView `json:"keys"`
}

// List returns every stored identity without touching secret material.
func List(ctx context.Context, s *Session) (*ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := s.Audit.Begin("list")

	infos, err := s.Manager.List()
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}

	keys := make([]KeyView, 0, len(infos))
	for _, info := range infos {
		keys = append(keys, viewOf(info))
	}

	entry.Count = len(keys)
	s.Audit.Finish(entry, nil)

	return &ListResult{Path: s.Manager.Path(), Keys: keys}, nil
}
