package netctl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSeedAndList(t *testing.T) {
	s := NewStore()
	s.Seed([]InterfaceState{
		{Name: "wlan0", Link: LinkUp, Mode: &Mode{Type: ModeStation}},
		{Name: "eth0", Link: LinkDown},
	})

	states := s.List()
	assert.Len(t, states, 2)
	// Sorted by name.
	assert.Equal(t, "eth0", states[0].Name)
	assert.Equal(t, "wlan0", states[1].Name)

	st, ok := s.Get("wlan0")
	assert.True(t, ok)
	assert.Equal(t, LinkUp, st.Link)
	assert.Equal(t, ModeStation, st.Mode.Type)

	_, ok = s.Get("eth9")
	assert.False(t, ok)
}

func TestStoreSeedReplaces(t *testing.T) {
	s := NewStore()
	s.Seed([]InterfaceState{{Name: "eth0", Link: LinkUp}})
	s.Seed([]InterfaceState{{Name: "eth1", Link: LinkDown}})

	_, ok := s.Get("eth0")
	assert.False(t, ok)
	st, ok := s.Get("eth1")
	assert.True(t, ok)
	assert.Equal(t, LinkDown, st.Link)
}

func TestStoreSetLinkPreservesMode(t *testing.T) {
	s := NewStore()
	s.Seed([]InterfaceState{
		{Name: "wlan0", Link: LinkUp, Mode: &Mode{Type: ModeStation}},
	})

	s.SetLink("wlan0", LinkDown)

	st, _ := s.Get("wlan0")
	assert.Equal(t, LinkDown, st.Link)
	assert.NotNil(t, st.Mode)
	assert.Equal(t, ModeStation, st.Mode.Type)
}

func TestStoreSetModeBringsLinkUp(t *testing.T) {
	s := NewStore()
	s.Seed([]InterfaceState{{Name: "wlan0", Link: LinkDown}})

	s.SetMode("wlan0", Mode{Type: ModeAccessPoint, SSID: "lab", Channel: 6})

	st, _ := s.Get("wlan0")
	assert.Equal(t, LinkUp, st.Link)
	assert.Equal(t, ModeAccessPoint, st.Mode.Type)
	assert.Equal(t, "lab", st.Mode.SSID)
}

func TestStoreRecordModeKeepsLinkState(t *testing.T) {
	s := NewStore()
	s.Seed([]InterfaceState{{Name: "wlan0", Link: LinkDown}})

	s.RecordMode("wlan0", Mode{Type: ModeStation})

	st, _ := s.Get("wlan0")
	assert.Equal(t, LinkDown, st.Link)
	assert.Equal(t, ModeStation, st.Mode.Type)
}
