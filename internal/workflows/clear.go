package workflows

import (
	"context"
)

// ClearResult contains the outcome of a clear operation.
type ClearResult struct {
	Path string

	// Removed is the number of entries deleted, when the file was readable.
	Removed int

	// Unreadable is true when the file could not be parsed before deletion.
	Unreadable bool

	// Existed is false when there was no keystore to delete.
	Existed bool
}

// Clear deletes the keystore file and every entry in it. An unreadable
// keystore is deleted too, which makes Clear the way out of a corrupt file.
func Clear(ctx context.Context, s *Session) (*ClearResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := s.Audit.Begin("clear")
	result := &ClearResult{Path: s.Manager.Path()}

	exists, err := s.Manager.Exists()
	if err != nil {
		s.Audit.Finish(entry, err)
		return nil, err
	}
	result.Existed = exists

	if exists {
		infos, err := s.Manager.List()
		if err != nil {
			s.Log.Debugf("Keystore unreadable before clear: %v", err)
			result.Unreadable = true
		} else {
			result.Removed = len(infos)
		}
	}

	err = s.Manager.ClearAll()
	entry.Count = result.Removed
	s.Audit.Finish(entry, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}
