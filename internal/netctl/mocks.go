package netctl

import (
	"github.com/stretchr/testify/mock"
	"github.com/vishvananda/netlink"

	"grimm.is/ifctl/internal/wireless"
)

// MockNetlinker is a mock implementation of the Netlinker interface.
type MockNetlinker struct {
	mock.Mock
}

func (m *MockNetlinker) LinkByName(name string) (netlink.Link, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(netlink.Link), args.Error(1)
}

func (m *MockNetlinker) LinkList() ([]netlink.Link, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]netlink.Link), args.Error(1)
}

func (m *MockNetlinker) LinkSetUp(link netlink.Link) error {
	args := m.Called(link)
	return args.Error(0)
}

func (m *MockNetlinker) LinkSetDown(link netlink.Link) error {
	args := m.Called(link)
	return args.Error(0)
}

// MockWireless is a mock implementation of the wireless.Manager interface.
type MockWireless struct {
	mock.Mock
}

func (m *MockWireless) Interfaces() ([]wireless.Interface, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wireless.Interface), args.Error(1)
}

func (m *MockWireless) Phys() ([]wireless.Phy, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wireless.Phy), args.Error(1)
}

func (m *MockWireless) SetInterfaceType(index uint32, typ wireless.InterfaceType) error {
	args := m.Called(index, typ)
	return args.Error(0)
}

func (m *MockWireless) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockHardwareInfo is a mock implementation of the HardwareInfo interface.
type MockHardwareInfo struct {
	mock.Mock
}

func (m *MockHardwareInfo) Driver(iface string) (string, error) {
	args := m.Called(iface)
	return args.String(0), args.Error(1)
}

func (m *MockHardwareInfo) SpeedMbps(iface string) (uint32, error) {
	args := m.Called(iface)
	return args.Get(0).(uint32), args.Error(1)
}

func (m *MockHardwareInfo) Close() {
	m.Called()
}
