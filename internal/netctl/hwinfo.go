package netctl

// HardwareInfo exposes the ethtool-level details the inventory reports.
// Failures are soft: callers treat an error as "no data" and move on.
type HardwareInfo interface {
	Driver(iface string) (string, error)
	SpeedMbps(iface string) (uint32, error)
	Close()
}
