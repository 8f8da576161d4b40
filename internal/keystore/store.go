package keystore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	kerrors "github.com/podtards/mspkeys/internal/errors"
	logger "github.com/podtards/mspkeys/internal/logging"
)

// FileName is the keystore file inside the data directory.
const FileName = "keystore.json"

// Store loads and saves a Keystore.
type Store interface {
	Load() (*Keystore, error)
	Save(ks *Keystore) error
	Remove() error
	Exists() (bool, error)
	Path() string
}

// FileStore keeps the keystore in one JSON file.
type FileStore struct {
	path string
	log  logger.Logger
}

// NewFileStore returns a store for the file at path.
func NewFileStore(path string, log logger.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the keystore. A missing file yields an empty keystore. A
// legacy file is migrated and the migrated form is written back before
// Load returns.
func (s *FileStore) Load() (*Keystore, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debugf("No keystore at %s, starting empty", s.path)
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading keystore %s: %w", kerrors.ErrHost, s.path, err)
	}

	ks, currentErr := DecodeCurrent(data)
	if currentErr == nil {
		s.log.Debugf("Loaded keystore %s with %d entries", s.path, len(ks.Entries))
		return ks, nil
	}

	rec, legacyErr := DecodeLegacy(data)
	if legacyErr != nil {
		s.log.Debugf("Legacy parse of %s failed: %v", s.path, legacyErr)
		return nil, fmt.Errorf("parsing keystore %s: %w", s.path, currentErr)
	}

	ks, err = MigrateLegacy(*rec)
	if err != nil {
		return nil, fmt.Errorf("migrating keystore %s: %w", s.path, err)
	}
	if err := s.Save(ks); err != nil {
		return nil, fmt.Errorf("saving migrated keystore: %w", err)
	}
	s.log.Infof("Migrated keystore %s from version %d to version %d", s.path, LegacyVersion, CurrentVersion)
	return ks, nil
}

// Save replaces the file with the serialized keystore and restricts it to
// the owner.
func (s *FileStore) Save(ks *Keystore) error {
	data, err := Encode(ks)
	if err != nil {
		return fmt.Errorf("encoding keystore: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("%w: creating keystore directory: %w", kerrors.ErrHost, err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: writing keystore %s: %w", kerrors.ErrHost, s.path, err)
	}
	if err := restrictPermissions(s.path); err != nil {
		return fmt.Errorf("%w: restricting keystore permissions: %w", kerrors.ErrHost, err)
	}
	s.log.Debugf("Saved keystore %s with %d entries", s.path, len(ks.Entries))
	return nil
}

// Remove deletes the keystore file. A missing file is not an error.
func (s *FileStore) Remove() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: removing keystore %s: %w", kerrors.ErrHost, s.path, err)
	}
	return nil
}

// Exists reports whether the keystore file is present.
func (s *FileStore) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("%w: checking keystore %s: %w", kerrors.ErrHost, s.path, err)
}
