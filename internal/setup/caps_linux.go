//go:build linux
// +build linux

package setup

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"grimm.is/ifctl/internal/logging"
)

// Grant applies the capability set to the binary at path. Idempotent: a
// binary that already carries the grant is left alone, so this is safe to
// re-run after every rebuild.
func Grant(path string) error {
	st, err := GetStatus(path)
	if err != nil {
		return err
	}
	if st.Granted {
		logging.WithComponent("setup").Debug("capabilities already granted", "path", path)
		return nil
	}

	setcap, err := exec.LookPath("setcap")
	if err != nil {
		return fmt.Errorf("setcap not found (install libcap tools): %w", err)
	}

	out, err := exec.Command(setcap, CapabilitySet, path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("setcap failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	logging.WithComponent("setup").Info("capabilities granted", "path", path, "caps", CapabilitySet)
	return nil
}

// Revoke strips all file capabilities from the binary at path.
func Revoke(path string) error {
	setcap, err := exec.LookPath("setcap")
	if err != nil {
		return fmt.Errorf("setcap not found (install libcap tools): %w", err)
	}

	out, err := exec.Command(setcap, "-r", path).CombinedOutput()
	if err != nil {
		// setcap -r fails when there is nothing to remove; treat as done.
		if strings.Contains(string(out), "No data available") {
			return nil
		}
		return fmt.Errorf("setcap -r failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	logging.WithComponent("setup").Info("capabilities revoked", "path", path)
	return nil
}

// GetStatus reports whether the binary at path carries the required grant.
func GetStatus(path string) (*Status, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}

	getcap, err := exec.LookPath("getcap")
	if err != nil {
		return nil, fmt.Errorf("getcap not found (install libcap tools): %w", err)
	}

	out, err := exec.Command(getcap, path).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("getcap failed: %s: %w", strings.TrimSpace(string(out)), err)
	}

	raw := strings.TrimSpace(string(out))
	return &Status{
		Path:    path,
		Granted: hasRequiredCaps(raw),
		Raw:     raw,
	}, nil
}

// CheckEffective verifies the running process holds cap_net_admin and
// cap_net_raw. Called at service startup to fail early with a clear message
// instead of an EPERM deep inside netlink.
func CheckEffective() error {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return fmt.Errorf("read process status: %w", err)
	}
	mask, err := parseCapEff(string(data))
	if err != nil {
		return err
	}
	if !effectiveCapsOK(mask) {
		return fmt.Errorf("process lacks cap_net_admin/cap_net_raw; run `ifctl caps grant` or start as root")
	}
	return nil
}

// SelfPath resolves the running binary's path for capability operations.
func SelfPath() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return path, nil
}
