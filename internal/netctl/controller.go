package netctl

import (
	"fmt"
	"net"
	"sync"

	"github.com/vishvananda/netlink"

	"grimm.is/ifctl/internal/config"
	"grimm.is/ifctl/internal/logging"
	"grimm.is/ifctl/internal/wireless"
)

// Controller serializes mutations per interface and keeps the state store
// consistent with the OS. Validation happens before any OS call; OS failures
// are surfaced verbatim and leave the store untouched.
type Controller struct {
	nl     Netlinker
	wifi   wireless.Manager // nil when the host has no nl80211 support
	hw     HardwareInfo     // nil when ethtool is unavailable
	store  *Store
	policy config.BusyPolicy
	allow  func(name string) bool
	log    *logging.Logger

	// OnChange, when set, is called after every confirmed mutation with the
	// interface's new state. Called while holding the interface's lock.
	OnChange func(InterfaceState)

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// ControllerConfig carries the controller's collaborators.
type ControllerConfig struct {
	Netlink    Netlinker
	Wireless   wireless.Manager
	Hardware   HardwareInfo
	Store      *Store
	BusyPolicy config.BusyPolicy
	// Allowed restricts which interfaces may be touched. Nil allows all.
	Allowed func(name string) bool
	Logger  *logging.Logger
}

// NewController creates a controller.
func NewController(cfg ControllerConfig) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{
		nl:     cfg.Netlink,
		wifi:   cfg.Wireless,
		hw:     cfg.Hardware,
		store:  cfg.Store,
		policy: cfg.BusyPolicy,
		allow:  cfg.Allowed,
		log:    logger.WithComponent("netctl"),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Store returns the controller's state store.
func (c *Controller) Store() *Store { return c.store }

func (c *Controller) lockFor(name string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	m, ok := c.locks[name]
	if !ok {
		m = &sync.Mutex{}
		c.locks[name] = m
	}
	return m
}

// acquire enters the interface's exclusive section. Under the reject policy
// a held lock fails fast with ErrBusy; under block it waits.
func (c *Controller) acquire(name string) (func(), error) {
	m := c.lockFor(name)
	if c.policy == config.BusyBlock {
		m.Lock()
		return m.Unlock, nil
	}
	if !m.TryLock() {
		return nil, fmt.Errorf("%s: %w", name, ErrBusy)
	}
	return m.Unlock, nil
}

func (c *Controller) managed(name string) bool {
	return c.allow == nil || c.allow(name)
}

// SetLinkState brings an interface up or down and returns the post-operation
// state. Setting the state it already has is a no-op success.
func (c *Controller) SetLinkState(name string, target LinkState) (LinkState, error) {
	if !target.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidState, string(target))
	}
	if !c.managed(name) {
		return "", fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	release, err := c.acquire(name)
	if err != nil {
		return "", err
	}
	defer release()

	link, err := c.nl.LinkByName(name)
	if err != nil {
		c.log.Debug("link lookup failed", "interface", name, "error", err)
		return "", fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	current := linkStateOf(link.Attrs().Flags)
	if current == target {
		c.store.SetLink(name, target)
		return target, nil
	}

	switch target {
	case LinkUp:
		err = c.nl.LinkSetUp(link)
	case LinkDown:
		err = c.nl.LinkSetDown(link)
	}
	if err != nil {
		return "", &OperationError{Op: "set link " + string(target), Interface: name, Err: err}
	}

	c.store.SetLink(name, target)
	c.log.Info("link state changed", "interface", name, "state", string(target))
	c.notify(name)
	return target, nil
}

// SetMode switches a wireless interface's operating mode and returns the
// active mode. The transition is down, set type, up; a request for the mode
// already active with identical configuration is a no-op, while a new
// configuration for the same mode is revoked and reapplied through the full
// cycle.
func (c *Controller) SetMode(name string, target Mode) (Mode, error) {
	if err := target.Validate(); err != nil {
		return Mode{}, err
	}
	if !c.managed(name) {
		return Mode{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if c.wifi == nil {
		return Mode{}, fmt.Errorf("%q: %w: no wireless support", name, ErrUnsupportedMode)
	}

	release, err := c.acquire(name)
	if err != nil {
		return Mode{}, err
	}
	defer release()

	wiface, err := c.wirelessInterface(name)
	if err != nil {
		return Mode{}, err
	}

	iftype := iftypeFor(target.Type)
	if err := c.checkPhySupport(wiface.PhyIndex, iftype); err != nil {
		return Mode{}, err
	}

	if wiface.Type == iftype && !modeConfigChanged(c.store, name, target) {
		c.store.RecordMode(name, target)
		return target, nil
	}

	link, err := c.nl.LinkByName(name)
	if err != nil {
		c.log.Debug("link lookup failed", "interface", name, "error", err)
		return Mode{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	if err := c.nl.LinkSetDown(link); err != nil {
		return Mode{}, &OperationError{Op: "set link Down", Interface: name, Err: err}
	}
	if err := c.wifi.SetInterfaceType(wiface.Index, iftype); err != nil {
		// Best effort to not strand the link down after a failed switch.
		if upErr := c.nl.LinkSetUp(link); upErr != nil {
			c.log.Warn("failed to restore link after mode failure",
				"interface", name, "error", upErr)
		}
		return Mode{}, &OperationError{Op: "set mode " + string(target.Type), Interface: name, Err: err}
	}
	if err := c.nl.LinkSetUp(link); err != nil {
		return Mode{}, &OperationError{Op: "set link Up", Interface: name, Err: err}
	}

	c.store.SetMode(name, target)
	c.log.Info("mode changed", "interface", name, "mode", string(target.Type))
	c.notify(name)
	return target, nil
}

// Inventory enumerates managed interfaces with link, hardware, and wireless
// details. Enrichment failures degrade to missing fields, never to an error.
func (c *Controller) Inventory() ([]InterfaceInfo, error) {
	links, err := c.nl.LinkList()
	if err != nil {
		return nil, &OperationError{Op: "list links", Interface: "*", Err: err}
	}

	wifaces, phys := c.wirelessSnapshot()

	var infos []InterfaceInfo
	for _, link := range links {
		attrs := link.Attrs()
		if !c.managed(attrs.Name) {
			continue
		}

		info := InterfaceInfo{
			Name:      attrs.Name,
			Kind:      kindOf(link),
			LinkState: linkStateOf(attrs.Flags),
			MTU:       attrs.MTU,
		}
		if len(attrs.HardwareAddr) > 0 {
			info.MAC = attrs.HardwareAddr.String()
		}

		if c.hw != nil {
			if driver, err := c.hw.Driver(attrs.Name); err == nil {
				info.Driver = driver
			}
			if speed, err := c.hw.SpeedMbps(attrs.Name); err == nil {
				info.SpeedMbps = speed
			}
		}

		if w, ok := wifaces[attrs.Name]; ok {
			info.Kind = KindWireless
			info.Wireless = &WirelessStatus{
				ActiveMode:     w.Type.String(),
				SupportedModes: supportedModeNames(phys[w.PhyIndex]),
			}
		}

		infos = append(infos, info)
	}
	return infos, nil
}

// SeedStore loads the current OS state into the store. Called once at
// startup before the API starts serving.
func (c *Controller) SeedStore() error {
	links, err := c.nl.LinkList()
	if err != nil {
		return &OperationError{Op: "list links", Interface: "*", Err: err}
	}

	wifaces, _ := c.wirelessSnapshot()

	var states []InterfaceState
	for _, link := range links {
		attrs := link.Attrs()
		if !c.managed(attrs.Name) {
			continue
		}

		st := InterfaceState{
			Name: attrs.Name,
			Link: linkStateOf(attrs.Flags),
		}
		if w, ok := wifaces[attrs.Name]; ok {
			switch w.Type {
			case wireless.TypeStation:
				st.Mode = &Mode{Type: ModeStation}
			case wireless.TypeAP:
				// AP config is not recoverable from the kernel; record the
				// mode and let the next ifmode call fill in the details.
				st.Mode = &Mode{Type: ModeAccessPoint}
			}
		}
		states = append(states, st)
	}

	c.store.Seed(states)
	c.log.Info("state store seeded", "interfaces", len(states))
	return nil
}

func (c *Controller) notify(name string) {
	if c.OnChange == nil {
		return
	}
	if st, ok := c.store.Get(name); ok {
		c.OnChange(st)
	}
}

// wirelessInterface locates the nl80211 view of a named interface. A name
// absent from nl80211 is only "not wireless" when rtnetlink knows the link;
// otherwise the interface does not exist at all.
func (c *Controller) wirelessInterface(name string) (wireless.Interface, error) {
	wifaces, err := c.wifi.Interfaces()
	if err != nil {
		return wireless.Interface{}, &OperationError{Op: "list wireless interfaces", Interface: name, Err: err}
	}
	for _, w := range wifaces {
		if w.Name == name {
			return w, nil
		}
	}
	if _, err := c.nl.LinkByName(name); err != nil {
		c.log.Debug("link lookup failed", "interface", name, "error", err)
		return wireless.Interface{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return wireless.Interface{}, fmt.Errorf("%q is not a wireless interface: %w", name, ErrUnsupportedMode)
}

func (c *Controller) checkPhySupport(phyIndex uint32, typ wireless.InterfaceType) error {
	phys, err := c.wifi.Phys()
	if err != nil {
		return &OperationError{Op: "list phys", Interface: "*", Err: err}
	}
	for _, phy := range phys {
		if phy.Index == phyIndex {
			if phy.Supports(typ) {
				return nil
			}
			return fmt.Errorf("%w: phy %s cannot operate as %s", ErrUnsupportedMode, phy.Name, typ)
		}
	}
	return fmt.Errorf("%w: phy %d not found", ErrUnsupportedMode, phyIndex)
}

// wirelessSnapshot returns the current wireless interfaces by name and phys
// by index, empty when wireless is unavailable.
func (c *Controller) wirelessSnapshot() (map[string]wireless.Interface, map[uint32]wireless.Phy) {
	wifaces := make(map[string]wireless.Interface)
	phys := make(map[uint32]wireless.Phy)
	if c.wifi == nil {
		return wifaces, phys
	}

	ifaces, err := c.wifi.Interfaces()
	if err != nil {
		c.log.Debug("wireless interface enumeration failed", "error", err)
		return wifaces, phys
	}
	for _, w := range ifaces {
		wifaces[w.Name] = w
	}

	phyList, err := c.wifi.Phys()
	if err != nil {
		c.log.Debug("phy enumeration failed", "error", err)
		return wifaces, phys
	}
	for _, p := range phyList {
		phys[p.Index] = p
	}
	return wifaces, phys
}

// modeConfigChanged reports whether the requested mode differs from what the
// store recorded. An unknown recorded config counts as changed so a fresh
// request always applies.
func modeConfigChanged(store *Store, name string, target Mode) bool {
	st, ok := store.Get(name)
	if !ok || st.Mode == nil {
		return target.Type != ModeStation
	}
	return *st.Mode != target
}

func linkStateOf(flags net.Flags) LinkState {
	if flags&net.FlagUp != 0 {
		return LinkUp
	}
	return LinkDown
}

func iftypeFor(t ModeType) wireless.InterfaceType {
	if t == ModeAccessPoint {
		return wireless.TypeAP
	}
	return wireless.TypeStation
}

func kindOf(link netlink.Link) InterfaceKind {
	if link.Attrs().Flags&net.FlagLoopback != 0 {
		return KindLoopback
	}
	switch link.Type() {
	case "bridge":
		return KindBridge
	case "device":
		return KindEthernet
	default:
		return KindUnknown
	}
}

func supportedModeNames(phy wireless.Phy) []string {
	names := make([]string, 0, len(phy.SupportedTypes))
	for _, t := range phy.SupportedTypes {
		names = append(names, t.String())
	}
	return names
}
