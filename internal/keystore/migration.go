package keystore

// MigrateLegacy converts a version 1 record into a current keystore holding
// exactly that one entry, with no label. It does no I/O.
func MigrateLegacy(rec LegacyRecord) (*Keystore, error) {
	e, err := entryFromWire(entryV2{
		Pubkey:     rec.Pubkey,
		Mode:       rec.Mode,
		Nonce:      rec.Nonce,
		Ciphertext: rec.Ciphertext,
		Argon2Salt: rec.Argon2Salt,
		CreatedAt:  rec.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	ks := New()
	ks.Entries = append(ks.Entries, e)
	return ks, nil
}
