// Package wireless talks nl80211 over generic netlink to enumerate wireless
// interfaces and devices and to change an interface's operating type.
package wireless

import "fmt"

// InterfaceType is an nl80211 interface type (NL80211_IFTYPE_*).
type InterfaceType uint32

const (
	TypeUnspecified InterfaceType = 0
	TypeAdhoc       InterfaceType = 1
	TypeStation     InterfaceType = 2
	TypeAP          InterfaceType = 3
	TypeAPVLAN      InterfaceType = 4
	TypeWDS         InterfaceType = 5
	TypeMonitor     InterfaceType = 6
	TypeMeshPoint   InterfaceType = 7
	TypeP2PClient   InterfaceType = 8
	TypeP2PGO       InterfaceType = 9
	TypeP2PDevice   InterfaceType = 10
	TypeOCB         InterfaceType = 11
)

// String returns the kernel-style name of the type.
func (t InterfaceType) String() string {
	switch t {
	case TypeAdhoc:
		return "adhoc"
	case TypeStation:
		return "station"
	case TypeAP:
		return "ap"
	case TypeAPVLAN:
		return "ap-vlan"
	case TypeWDS:
		return "wds"
	case TypeMonitor:
		return "monitor"
	case TypeMeshPoint:
		return "mesh-point"
	case TypeP2PClient:
		return "p2p-client"
	case TypeP2PGO:
		return "p2p-go"
	case TypeP2PDevice:
		return "p2p-device"
	case TypeOCB:
		return "ocb"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// Interface is a wireless network interface as reported by nl80211.
type Interface struct {
	Index    uint32 // ifindex, shared with rtnetlink
	PhyIndex uint32 // owning wiphy
	Name     string
	Type     InterfaceType
}

// Phy is a wireless physical device and the interface types it supports.
type Phy struct {
	Index          uint32
	Name           string
	SupportedTypes []InterfaceType
}

// Supports reports whether the phy can operate an interface of type t.
func (p Phy) Supports(t InterfaceType) bool {
	for _, st := range p.SupportedTypes {
		if st == t {
			return true
		}
	}
	return false
}

// Manager abstracts the nl80211 operations the interface controller needs,
// so tests can substitute a mock.
type Manager interface {
	// Interfaces lists all wireless interfaces.
	Interfaces() ([]Interface, error)
	// Phys lists all wireless physical devices.
	Phys() ([]Phy, error)
	// SetInterfaceType changes the operating type of the interface with the
	// given ifindex.
	SetInterfaceType(index uint32, typ InterfaceType) error
	// Close releases the netlink socket.
	Close() error
}
