//go:build !linux
// +build !linux

package wireless

import "errors"

var errUnsupported = errors.New("nl80211 is only available on linux")

// Client is a stub for non-Linux builds.
type Client struct{}

// Dial always fails on non-Linux platforms.
func Dial() (*Client, error) {
	return nil, errUnsupported
}

// Close is a no-op.
func (c *Client) Close() error { return nil }

// Interfaces always fails on non-Linux platforms.
func (c *Client) Interfaces() ([]Interface, error) { return nil, errUnsupported }

// Phys always fails on non-Linux platforms.
func (c *Client) Phys() ([]Phy, error) { return nil, errUnsupported }

// SetInterfaceType always fails on non-Linux platforms.
func (c *Client) SetInterfaceType(index uint32, typ InterfaceType) error {
	return errUnsupported
}
