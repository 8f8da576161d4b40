//go:build windows

package keystore

// Windows doesn't use Unix-style permission bits.
func restrictPermissions(string) error {
	return nil
}
