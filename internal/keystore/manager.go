package keystore

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/identity"
	"github.com/podtards/mspkeys/internal/kdf"
	logger "github.com/podtards/mspkeys/internal/logging"
	"github.com/podtards/mspkeys/internal/sealer"
	"github.com/podtards/mspkeys/internal/secmem"
)

// IdentityDeriver maps a private key to its public identity id. It returns
// an error wrapping ErrInvalidSecret when the secret is not a key.
type IdentityDeriver interface {
	IdentityID(secret []byte) (string, error)
}

// AddOptions selects how a new entry is protected.
type AddOptions struct {
	Mode Mode

	// Password is required in ModePassword and ignored otherwise. It is
	// read, never retained; the caller keeps ownership and wipes it.
	Password []byte

	Label *string
}

// Manager runs keystore operations against one Store. Each operation loads
// the keystore, changes it and saves it while holding the manager's lock.
type Manager struct {
	mu       sync.Mutex
	store    Store
	deriver  kdf.Deriver
	identity IdentityDeriver
	now      func() time.Time
	log      logger.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithDeriver replaces the production key deriver.
func WithDeriver(d kdf.Deriver) Option {
	return func(m *Manager) { m.deriver = d }
}

// WithKDFParams keeps the deriver's device source and replaces its
// Argon2id parameters.
func WithKDFParams(p kdf.Params) Option {
	return func(m *Manager) { m.deriver.Params = p }
}

// WithIdentity replaces the Nostr identity deriver.
func WithIdentity(id IdentityDeriver) Option {
	return func(m *Manager) { m.identity = id }
}

// WithClock sets the time source for created_at.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithLogger sets the logger used by the manager and its file store.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithStore replaces the file store.
func WithStore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// NewManager returns a Manager for the keystore file at path.
func NewManager(path string, opts ...Option) *Manager {
	m := &Manager{
		deriver:  kdf.NewDeriver(),
		identity: identity.Nostr{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.store == nil {
		m.store = NewFileStore(path, m.log)
	}
	return m
}

// Path returns the keystore location.
func (m *Manager) Path() string {
	return m.store.Path()
}

// Exists reports whether a keystore file is present.
func (m *Manager) Exists() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Exists()
}

// List returns the public view of every entry.
func (m *Manager) List() ([]EntryInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ks, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	return ks.Infos(), nil
}

// Info returns the public view of the entry Unlock would select for
// identityID, so callers can tell whether a password is needed.
func (m *Manager) Info(identityID string) (*EntryInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ks, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	e, err := selectEntry(ks, identityID)
	if err != nil {
		return nil, err
	}
	info := e.Info()
	return &info, nil
}

// AddProtected encrypts secret and stores it under its identity id,
// replacing any entry for the same identity.
func (m *Manager) AddProtected(secret []byte, opts AddOptions) (*EntryInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ks, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	info, err := m.add(ks, secret, opts)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ks); err != nil {
		return nil, err
	}
	m.log.Infof("Stored %s-protected key %s", info.Mode, info.IdentityID)
	return info, nil
}

// Unlock decrypts the entry for identityID and verifies it. An empty
// identityID selects the only entry of a single-entry keystore. The caller
// owns the returned secret and must Destroy it.
func (m *Manager) Unlock(identityID string, password []byte) (*secmem.Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ks, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	e, err := selectEntry(ks, identityID)
	if err != nil {
		return nil, err
	}
	secret, err := m.open(e, password)
	if err != nil {
		return nil, err
	}
	m.log.Infof("Unlocked key %s", e.IdentityID)
	return secret, nil
}

// Remove deletes the entry for identityID.
func (m *Manager) Remove(identityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ks, err := m.store.Load()
	if err != nil {
		return err
	}
	if !ks.Remove(identityID) {
		return fmt.Errorf("%w: %s", kerrors.ErrNotFound, identityID)
	}
	if err := m.store.Save(ks); err != nil {
		return err
	}
	m.log.Infof("Removed key %s", identityID)
	return nil
}

// Relabel sets or clears the label of an entry. A nil or blank label clears it.
func (m *Manager) Relabel(identityID string, label *string) (*EntryInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ks, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	e, ok := ks.Find(identityID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotFound, identityID)
	}
	e.Label = normalizeLabel(label)
	info := e.Info()
	if err := m.store.Save(ks); err != nil {
		return nil, err
	}
	return &info, nil
}

// RotateProtection unlocks an entry with its current credentials and stores
// it again under new ones: a non-empty next password selects password mode
// with a fresh salt, anything else selects device mode. The label is kept.
func (m *Manager) RotateProtection(identityID string, current, next []byte) (*EntryInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ks, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	e, err := selectEntry(ks, identityID)
	if err != nil {
		return nil, err
	}
	secret, err := m.open(e, current)
	if err != nil {
		return nil, err
	}
	defer secret.Destroy()

	opts := AddOptions{Mode: ModeDevice, Label: normalizeLabel(e.Label)}
	if len(next) > 0 {
		opts.Mode = ModePassword
		opts.Password = next
	}
	from := e.Protection.Mode()

	info, err := m.add(ks, secret.Bytes(), opts)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(ks); err != nil {
		return nil, err
	}
	m.log.Infof("Rotated key %s from %s to %s protection", info.IdentityID, from, info.Mode)
	return info, nil
}

// ClearAll deletes the keystore file. It succeeds when there is no file.
func (m *Manager) ClearAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Remove(); err != nil {
		return err
	}
	m.log.Infof("Cleared keystore %s", m.store.Path())
	return nil
}

// add seals secret into ks. It does not save.
func (m *Manager) add(ks *Keystore, secret []byte, opts AddOptions) (*EntryInfo, error) {
	if opts.Mode == ModePassword && len(opts.Password) == 0 {
		return nil, fmt.Errorf("%w: password cannot be empty", kerrors.ErrMissingCredential)
	}

	id, err := m.identity.IdentityID(secret)
	if err != nil {
		if errors.Is(err, kerrors.ErrInvalidSecret) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidSecret, err)
	}

	var (
		prot Protection
		key  []byte
	)
	switch opts.Mode {
	case ModePassword:
		salt, err := kdf.NewPasswordSalt()
		if err != nil {
			return nil, err
		}
		key, err = m.deriver.PasswordKey(opts.Password, salt)
		if err != nil {
			return nil, err
		}
		prot = PasswordProtection{Salt: salt}
	case ModeDevice:
		key, err = m.deriver.DeviceKey()
		if err != nil {
			return nil, err
		}
		prot = DeviceProtection{}
	default:
		return nil, fmt.Errorf("unknown storage mode: %s", opts.Mode)
	}
	defer secmem.Wipe(key)

	box, err := sealer.Seal(secret, key)
	if err != nil {
		return nil, err
	}

	e := Entry{
		IdentityID: id,
		Protection: prot,
		Sealed:     box,
		CreatedAt:  time.Unix(m.now().Unix(), 0).UTC(),
		Label:      normalizeLabel(opts.Label),
	}
	ks.Put(e)
	info := e.Info()
	return &info, nil
}

// open decrypts e and checks the recovered key against e's identity.
func (m *Manager) open(e *Entry, password []byte) (*secmem.Secret, error) {
	key, err := m.entryKey(e, password)
	if err != nil {
		return nil, err
	}
	defer secmem.Wipe(key)

	plain, err := sealer.Open(e.Sealed, key)
	if err != nil {
		return nil, err
	}

	got, err := m.identity.IdentityID(plain)
	if err != nil || got != e.IdentityID {
		secmem.Wipe(plain)
		return nil, fmt.Errorf("%w: %s", kerrors.ErrVerificationMismatch, e.IdentityID)
	}
	return secmem.NewSecret(plain), nil
}

func (m *Manager) entryKey(e *Entry, password []byte) ([]byte, error) {
	switch p := e.Protection.(type) {
	case PasswordProtection:
		if len(password) == 0 {
			return nil, fmt.Errorf("%w for this key", kerrors.ErrMissingCredential)
		}
		return m.deriver.PasswordKey(password, p.Salt)
	case DeviceProtection:
		return m.deriver.DeviceKey()
	default:
		return nil, fmt.Errorf("%w: unknown storage mode", kerrors.ErrFormat)
	}
}

func selectEntry(ks *Keystore, identityID string) (*Entry, error) {
	if identityID == "" {
		switch len(ks.Entries) {
		case 0:
			return nil, fmt.Errorf("%w: no stored key found", kerrors.ErrNotFound)
		case 1:
			return &ks.Entries[0], nil
		default:
			return nil, kerrors.ErrIdentityRequired
		}
	}
	e, ok := ks.Find(identityID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrNotFound, identityID)
	}
	return e, nil
}

func normalizeLabel(label *string) *string {
	if label == nil {
		return nil
	}
	l := strings.TrimSpace(*label)
	if l == "" {
		return nil
	}
	return &l
}
