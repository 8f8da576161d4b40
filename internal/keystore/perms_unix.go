//go:build !windows

package keystore

import "os"

func restrictPermissions(path string) error {
	return os.Chmod(path, 0o600)
}
