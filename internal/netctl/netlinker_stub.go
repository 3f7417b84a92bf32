//go:build !linux
// +build !linux

package netctl

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// RealNetlinker is a stub implementation of Netlinker.
type RealNetlinker struct{}

func (r *RealNetlinker) LinkByName(name string) (netlink.Link, error) {
	return nil, fmt.Errorf("LinkByName not supported on this platform")
}

func (r *RealNetlinker) LinkList() ([]netlink.Link, error) {
	return nil, nil
}

func (r *RealNetlinker) LinkSetUp(link netlink.Link) error {
	return nil
}

func (r *RealNetlinker) LinkSetDown(link netlink.Link) error {
	return nil
}
