// Package netctl owns the interface state model: the last-known state store,
// the serialized controller that mutates link state and wireless mode, and
// the netlink abstraction both are built on.
package netctl

import "fmt"

// LinkState is the administrative state of an interface.
type LinkState string

const (
	LinkUp   LinkState = "Up"
	LinkDown LinkState = "Down"
)

// Valid reports whether s is a settable link state.
func (s LinkState) Valid() bool {
	return s == LinkUp || s == LinkDown
}

// ModeType names a wireless operating mode.
type ModeType string

const (
	ModeStation     ModeType = "Station"
	ModeAccessPoint ModeType = "AccessPoint"
)

// Mode is a wireless operating mode with its configuration. Station carries
// no configuration; AccessPoint requires an SSID and channel.
type Mode struct {
	Type    ModeType `json:"type"`
	SSID    string   `json:"ssid,omitempty"`
	Channel int      `json:"channel,omitempty"`
}

// Validate checks the mode for well-formedness before any OS call is made.
// Station ignores stray configuration fields.
func (m Mode) Validate() error {
	switch m.Type {
	case ModeStation:
		return nil
	case ModeAccessPoint:
		if n := len(m.SSID); n < 1 || n > 32 {
			return fmt.Errorf("%w: ssid must be 1-32 bytes, got %d", ErrInvalidMode, n)
		}
		if m.Channel < 1 || m.Channel > 177 {
			return fmt.Errorf("%w: channel %d out of range", ErrInvalidMode, m.Channel)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode type %q", ErrInvalidMode, string(m.Type))
	}
}

// InterfaceKind is a coarse classification used by the inventory.
type InterfaceKind string

const (
	KindEthernet InterfaceKind = "ethernet"
	KindWireless InterfaceKind = "wireless"
	KindLoopback InterfaceKind = "loopback"
	KindBridge   InterfaceKind = "bridge"
	KindUnknown  InterfaceKind = "unknown"
)

// WirelessStatus reports a wireless interface's active mode and what the
// underlying phy can do.
type WirelessStatus struct {
	ActiveMode     string   `json:"active_mode"`
	SupportedModes []string `json:"supported_modes"`
}

// InterfaceInfo is one inventory entry.
type InterfaceInfo struct {
	Name      string          `json:"name"`
	Kind      InterfaceKind   `json:"kind"`
	LinkState LinkState       `json:"link_state"`
	MAC       string          `json:"mac,omitempty"`
	MTU       int             `json:"mtu"`
	Driver    string          `json:"driver,omitempty"`
	SpeedMbps uint32          `json:"speed_mbps,omitempty"`
	Wireless  *WirelessStatus `json:"wireless,omitempty"`
}

// InterfaceState is the store's record of one interface.
type InterfaceState struct {
	Name string
	Link LinkState
	Mode *Mode // nil for non-wireless interfaces
}
