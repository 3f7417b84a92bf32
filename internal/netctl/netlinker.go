package netctl

import "github.com/vishvananda/netlink"

// Netlinker abstracts the rtnetlink link operations the controller needs.
// This allows for mocking netlink calls during unit testing.
type Netlinker interface {
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	LinkSetUp(link netlink.Link) error
	LinkSetDown(link netlink.Link) error
}
