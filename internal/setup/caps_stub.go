//go:build !linux
// +build !linux

package setup

import (
	"fmt"
	"os"
)

var errUnsupported = fmt.Errorf("file capabilities are only available on linux")

// Grant always fails on non-Linux platforms.
func Grant(path string) error { return errUnsupported }

// Revoke always fails on non-Linux platforms.
func Revoke(path string) error { return errUnsupported }

// GetStatus always fails on non-Linux platforms.
func GetStatus(path string) (*Status, error) { return nil, errUnsupported }

// CheckEffective is a no-op on non-Linux platforms.
func CheckEffective() error { return nil }

// SelfPath resolves the running binary's path.
func SelfPath() (string, error) {
	return os.Executable()
}
