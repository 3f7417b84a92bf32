// Package setup manages the file capabilities the service binary needs to
// drive netlink without running as root.
package setup

import (
	"fmt"
	"strconv"
	"strings"
)

// CapabilitySet is the grant applied to the binary: everything needed for
// rtnetlink and nl80211, nothing more.
const CapabilitySet = "cap_net_admin,cap_net_raw+ep"

// Capability bit positions (linux/capability.h).
const (
	capNetAdmin = 12
	capNetRaw   = 13
)

// Status describes the binary's current grant.
type Status struct {
	Path    string `json:"path"`
	Granted bool   `json:"granted"`
	Raw     string `json:"raw,omitempty"`
}

// hasRequiredCaps reports whether a getcap output line carries both
// cap_net_admin and cap_net_raw as effective+permitted.
func hasRequiredCaps(out string) bool {
	// getcap prints "/path cap_net_admin,cap_net_raw=ep" (or "+ep" on older
	// versions); an empty line means no capabilities are set.
	line := strings.TrimSpace(out)
	if line == "" {
		return false
	}
	idx := strings.LastIndexAny(line, "=+")
	if idx < 0 {
		return false
	}
	// Trailing flag set must include both e and p.
	flags := line[idx+1:]
	if !strings.Contains(flags, "e") || !strings.Contains(flags, "p") {
		return false
	}
	caps := line[:idx]
	if sp := strings.LastIndex(caps, " "); sp >= 0 {
		caps = caps[sp+1:]
	}
	return strings.Contains(caps, "cap_net_admin") && strings.Contains(caps, "cap_net_raw")
}

// parseCapEff extracts the effective capability mask from /proc/self/status
// content.
func parseCapEff(status string) (uint64, error) {
	for _, line := range strings.Split(status, "\n") {
		if !strings.HasPrefix(line, "CapEff:") {
			continue
		}
		hexmask := strings.TrimSpace(strings.TrimPrefix(line, "CapEff:"))
		mask, err := strconv.ParseUint(hexmask, 16, 64)
		if err != nil {
			return 0, fmt.Errorf("bad CapEff value %q: %w", hexmask, err)
		}
		return mask, nil
	}
	return 0, fmt.Errorf("no CapEff line in process status")
}

// effectiveCapsOK reports whether the mask includes cap_net_admin and
// cap_net_raw.
func effectiveCapsOK(mask uint64) bool {
	want := uint64(1)<<capNetAdmin | uint64(1)<<capNetRaw
	return mask&want == want
}
