//go:build !linux
// +build !linux

package netctl

import "fmt"

// EthtoolInfo is a stub for non-Linux builds.
type EthtoolInfo struct{}

// NewEthtoolInfo always fails on non-Linux platforms.
func NewEthtoolInfo() (*EthtoolInfo, error) {
	return nil, fmt.Errorf("ethtool is only available on linux")
}

func (e *EthtoolInfo) Close() {}

func (e *EthtoolInfo) Driver(iface string) (string, error) {
	return "", fmt.Errorf("no driver info on this platform")
}

func (e *EthtoolInfo) SpeedMbps(iface string) (uint32, error) {
	return 0, fmt.Errorf("no speed info on this platform")
}
