package workflows

import (
	"fmt"

	"github.com/podtards/mspkeys/internal/audit"
	"github.com/podtards/mspkeys/internal/configs"
	kerrors "github.com/podtards/mspkeys/internal/errors"
	"github.com/podtards/mspkeys/internal/identity"
	"github.com/podtards/mspkeys/internal/kdf"
	"github.com/podtards/mspkeys/internal/keystore"
	logger "github.com/podtards/mspkeys/internal/logging"
)

// Session is the state shared by the workflows of one invocation.
type Session struct {
	Manager  *keystore.Manager
	Audit    *audit.Trail
	Log      logger.Logger
	Settings *configs.Settings
	Config   *configs.Config

	// Device derives device keys and is probed by Doctor.
	Device kdf.DeviceSource
}

// NewSession builds a session for settings. The manager derives device keys
// from device, the same source Doctor probes. Manager options are applied
// afterwards, so tests can lower the KDF parameters or swap the clock.
func NewSession(settings *configs.Settings, cfg *configs.Config, log logger.Logger, device kdf.DeviceSource, opts ...keystore.Option) *Session {
	if cfg == nil {
		cfg = configs.DefaultConfig()
	}
	if device == nil {
		device = kdf.MachineID{}
	}

	base := []keystore.Option{
		keystore.WithLogger(log),
		keystore.WithDeriver(kdf.Deriver{Params: kdf.DefaultParams(), Device: device}),
	}
	return &Session{
		Manager:  keystore.NewManager(settings.KeystorePath(), append(base, opts...)...),
		Audit:    audit.New(settings.AuditPath(), cfg.Audit.Enabled, settings.Username),
		Log:      log,
		Settings: settings,
		Config:   cfg,
		Device:   device,
	}
}

// KeyView is an entry's public view plus its npub.
type KeyView struct {
	keystore.EntryInfo
	Npub string `json:"npub"`
}

func viewOf(info keystore.EntryInfo) KeyView {
	// Stored ids are validated on load, so encoding cannot fail here.
	npub, _ := identity.EncodeNpub(info.IdentityID)
	return KeyView{EntryInfo: info, Npub: npub}
}

// ParseIdentity converts an npub or hex identity to the stored hex form.
// An empty string stays empty.
func ParseIdentity(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	id, err := identity.DecodeNpub(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", kerrors.ErrInvalidIdentity, s)
	}
	return id, nil
}

// Lookup returns the entry an operation on ref would act on.
func Lookup(s *Session, ref string) (*KeyView, error) {
	id, err := ParseIdentity(ref)
	if err != nil {
		return nil, err
	}
	info, err := s.Manager.Info(id)
	if err != nil {
		return nil, err
	}
	view := viewOf(*info)
	return &view, nil
}
