//go:build linux
// +build linux

package netctl

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/safchain/ethtool"
)

// EthtoolInfo implements HardwareInfo over an ethtool handle, falling back
// to sysfs for virtual NICs that answer ethtool queries badly.
type EthtoolInfo struct {
	handle *ethtool.Ethtool
}

// NewEthtoolInfo opens an ethtool handle.
func NewEthtoolInfo() (*EthtoolInfo, error) {
	h, err := ethtool.NewEthtool()
	if err != nil {
		return nil, fmt.Errorf("failed to open ethtool handle: %w", err)
	}
	return &EthtoolInfo{handle: h}, nil
}

// Close closes the ethtool handle.
func (e *EthtoolInfo) Close() {
	e.handle.Close()
}

// Driver returns the driver name for an interface, preferring ethtool and
// falling back to the sysfs driver symlink.
func (e *EthtoolInfo) Driver(iface string) (string, error) {
	if name, err := e.handle.DriverName(iface); err == nil && name != "" {
		return name, nil
	}

	target, err := os.Readlink(fmt.Sprintf("/sys/class/net/%s/device/driver", iface))
	if err != nil {
		return "", fmt.Errorf("no driver info for %s: %w", iface, err)
	}
	return filepath.Base(target), nil
}

// SpeedMbps returns the negotiated link speed in Mb/s. Virtual NICs report
// no meaningful speed; those read from sysfs which returns -1 when unknown.
func (e *EthtoolInfo) SpeedMbps(iface string) (uint32, error) {
	settings, err := e.handle.GetLinkSettings(iface)
	if err == nil && settings.Speed != 0 && settings.Speed != ^uint32(0) {
		return settings.Speed, nil
	}

	data, err := os.ReadFile(fmt.Sprintf("/sys/class/net/%s/speed", iface))
	if err != nil {
		return 0, fmt.Errorf("no speed info for %s: %w", iface, err)
	}
	s := strings.TrimSpace(string(data))
	if s == "" || s == "-1" {
		return 0, fmt.Errorf("speed unknown for %s", iface)
	}
	speed, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad sysfs speed %q for %s", s, iface)
	}
	return uint32(speed), nil
}
