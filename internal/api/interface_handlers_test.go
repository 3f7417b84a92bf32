package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/vishvananda/netlink"

	"grimm.is/ifctl/internal/netctl"
	"grimm.is/ifctl/internal/wireless"
)

func testLink(name string, up bool) *netlink.Device {
	flags := net.Flags(0)
	if up {
		flags = net.FlagUp
	}
	return &netlink.Device{LinkAttrs: netlink.LinkAttrs{Name: name, Flags: flags, MTU: 1500}}
}

func TestIfStateUp(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	eth0 := testLink("eth0", false)
	ts.nl.On("LinkByName", "eth0").Return(eth0, nil).Once()
	ts.nl.On("LinkSetUp", eth0).Return(nil).Once()

	w := ts.do(t, http.MethodPost, "/api/net/ifstate", token, map[string]string{
		"interface_name": "eth0",
		"link_state":     "Up",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("ifstate = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		LinkState string `json:"link_state"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.LinkState != "Up" {
		t.Errorf("link_state = %q, want Up", resp.LinkState)
	}
	ts.nl.AssertExpectations(t)
}

func TestIfStateValidation(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	// Missing interface name.
	w := ts.do(t, http.MethodPost, "/api/net/ifstate", token, map[string]string{
		"link_state": "Up",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name = %d, want 400", w.Code)
	}

	// Unknown state value.
	w = ts.do(t, http.MethodPost, "/api/net/ifstate", token, map[string]string{
		"interface_name": "eth0",
		"link_state":     "sideways",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad state = %d, want 400", w.Code)
	}
}

func TestIfStateNotFound(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.nl.On("LinkByName", "eth9").Return(nil, errors.New("Link not found")).Once()

	w := ts.do(t, http.MethodPost, "/api/net/ifstate", token, map[string]string{
		"interface_name": "eth9",
		"link_state":     "Down",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown interface = %d, want 404", w.Code)
	}
}

func TestIfModeStationToAP(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.wifi.On("Interfaces").Return([]wireless.Interface{
		{Index: 3, PhyIndex: 0, Name: "wlan0", Type: wireless.TypeStation},
	}, nil).Once()
	ts.wifi.On("Phys").Return([]wireless.Phy{
		{Index: 0, Name: "phy0", SupportedTypes: []wireless.InterfaceType{
			wireless.TypeStation, wireless.TypeAP,
		}},
	}, nil).Once()

	wlan0 := testLink("wlan0", true)
	ts.nl.On("LinkByName", "wlan0").Return(wlan0, nil).Once()
	ts.nl.On("LinkSetDown", wlan0).Return(nil).Once()
	ts.wifi.On("SetInterfaceType", uint32(3), wireless.TypeAP).Return(nil).Once()
	ts.nl.On("LinkSetUp", wlan0).Return(nil).Once()

	w := ts.do(t, http.MethodPost, "/api/net/ifmode", token, map[string]any{
		"interfaceName": "wlan0",
		"interfaceMode": map[string]any{"type": "AccessPoint", "ssid": "lab", "channel": 6},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("ifmode = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		InterfaceMode netctl.Mode `json:"interfaceMode"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.InterfaceMode.Type != netctl.ModeAccessPoint || resp.InterfaceMode.SSID != "lab" {
		t.Errorf("unexpected mode: %+v", resp.InterfaceMode)
	}
	ts.nl.AssertExpectations(t)
	ts.wifi.AssertExpectations(t)
}

func TestIfModeInvalidConfig(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	w := ts.do(t, http.MethodPost, "/api/net/ifmode", token, map[string]any{
		"interfaceName": "wlan0",
		"interfaceMode": map[string]any{"type": "AccessPoint", "ssid": "", "channel": 6},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid config = %d, want 400", w.Code)
	}
}

func TestIfModeUnsupported(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.wifi.On("Interfaces").Return([]wireless.Interface{
		{Index: 3, PhyIndex: 0, Name: "wlan0", Type: wireless.TypeStation},
	}, nil).Once()
	ts.wifi.On("Phys").Return([]wireless.Phy{
		{Index: 0, Name: "phy0", SupportedTypes: []wireless.InterfaceType{wireless.TypeStation}},
	}, nil).Once()

	w := ts.do(t, http.MethodPost, "/api/net/ifmode", token, map[string]any{
		"interfaceName": "wlan0",
		"interfaceMode": map[string]any{"type": "AccessPoint", "ssid": "lab", "channel": 6},
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unsupported mode = %d, want 400", w.Code)
	}
}

func TestIfModeUnknownInterface(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	// Not in the nl80211 list and unknown to rtnetlink either.
	ts.wifi.On("Interfaces").Return([]wireless.Interface{}, nil).Once()
	ts.nl.On("LinkByName", "ghost0").Return(nil, errors.New("Link not found")).Once()

	w := ts.do(t, http.MethodPost, "/api/net/ifmode", token, map[string]any{
		"interfaceName": "ghost0",
		"interfaceMode": map[string]any{"type": "AccessPoint", "ssid": "lab", "channel": 6},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown interface = %d, want 404", w.Code)
	}
	ts.wifi.AssertNotCalled(t, "SetInterfaceType")
}

func TestInterfacesInventory(t *testing.T) {
	ts := newTestServer(t)
	token := ts.login(t)

	ts.nl.On("LinkList").Return([]netlink.Link{testLink("eth0", true)}, nil).Once()
	ts.wifi.On("Interfaces").Return([]wireless.Interface{}, nil).Once()
	ts.wifi.On("Phys").Return([]wireless.Phy{}, nil).Once()

	w := ts.do(t, http.MethodPost, "/api/net/interfaces", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("interfaces = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Interfaces []netctl.InterfaceInfo `json:"interfaces"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Interfaces) != 1 || resp.Interfaces[0].Name != "eth0" {
		t.Errorf("unexpected inventory: %+v", resp.Interfaces)
	}
}
