// Package secmem holds short-lived secret material.
//
// Every buffer that carries a private key, a password or a derived key is
// wiped with Wipe as soon as its owner is done with it, normally through a
// defer placed right after the buffer is created so that early error returns
// are covered too.
package secmem

import "github.com/awnumar/memguard"

// Wipe overwrites b with zeros. A nil or empty slice is a no-op.
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	memguard.WipeBytes(b)
}

// Secret is a secret buffer handed from one owner to the next.
// The receiver takes ownership and must call Destroy.
type Secret struct {
	b []byte
}

// NewSecret takes ownership of b. The caller must not keep using b.
func NewSecret(b []byte) *Secret {
	return &Secret{b: b}
}

// Bytes exposes the underlying buffer. It is only valid until Destroy.
func (s *Secret) Bytes() []byte {
	if s == nil {
		return nil
	}
	return s.b
}

// Len returns the length of the secret.
func (s *Secret) Len() int {
	if s == nil {
		return 0
	}
	return len(s.b)
}

// Destroy wipes the buffer. Calling it more than once is safe.
func (s *Secret) Destroy() {
	if s == nil {
		return
	}
	Wipe(s.b)
	s.b = nil
}

// String never reveals the secret.
func (s *Secret) String() string {
	return "[redacted]"
}
