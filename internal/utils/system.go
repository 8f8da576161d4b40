package utils

import (
	"os"
	"os/user"
	"runtime"
)

// GetUsername returns the current username.
func GetUsername() (string, error) {
	user, err := user.Current()
	if err != nil {
		return "", err
	}
	return user.Username, nil
}

// GetHostname returns the system hostname.
func GetHostname() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}
	return hostname, nil
}

// FileMode returns the permission bits of path.
func FileMode(path string) (os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

// SupportsPermissionBits reports whether the host enforces unix file modes.
func SupportsPermissionBits() bool {
	return runtime.GOOS != "windows"
}

// IsOwnerOnly reports whether mode grants nothing to group or others.
func IsOwnerOnly(mode os.FileMode) bool {
	return mode.Perm()&0o077 == 0
}
