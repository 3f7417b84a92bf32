//go:build linux
// +build linux

package wireless

import (
	"fmt"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
)

// nl80211 commands and attributes (include/uapi/linux/nl80211.h).
const (
	familyName = "nl80211"

	cmdGetWiphy     = 1
	cmdGetInterface = 5
	cmdSetInterface = 6

	attrWiphy            = 1
	attrWiphyName        = 2
	attrIfIndex          = 3
	attrIfName           = 4
	attrIfType           = 5
	attrSupportedIftypes = 32
)

// Client implements Manager over a generic netlink socket.
type Client struct {
	conn   *genetlink.Conn
	family genetlink.Family
}

// Dial opens an nl80211 connection. Fails when the kernel has no wireless
// support.
func Dial() (*Client, error) {
	conn, err := genetlink.Dial(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open generic netlink: %w", err)
	}

	family, err := conn.GetFamily(familyName)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("nl80211 not available: %w", err)
	}

	return &Client{conn: conn, family: family}, nil
}

// Close releases the netlink socket.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Interfaces lists all wireless interfaces.
func (c *Client) Interfaces() ([]Interface, error) {
	req := genetlink.Message{
		Header: genetlink.Header{
			Command: cmdGetInterface,
			Version: c.family.Version,
		},
	}

	msgs, err := c.conn.Execute(req, c.family.ID, netlink.Request|netlink.Dump)
	if err != nil {
		return nil, fmt.Errorf("failed to dump wireless interfaces: %w", err)
	}

	return parseInterfaces(msgs)
}

// Phys lists all wireless physical devices with their supported types.
func (c *Client) Phys() ([]Phy, error) {
	req := genetlink.Message{
		Header: genetlink.Header{
			Command: cmdGetWiphy,
			Version: c.family.Version,
		},
	}

	msgs, err := c.conn.Execute(req, c.family.ID, netlink.Request|netlink.Dump)
	if err != nil {
		return nil, fmt.Errorf("failed to dump wireless phys: %w", err)
	}

	return parsePhys(msgs)
}

// SetInterfaceType changes the operating type of an interface.
func (c *Client) SetInterfaceType(index uint32, typ InterfaceType) error {
	ae := netlink.NewAttributeEncoder()
	ae.Uint32(attrIfIndex, index)
	ae.Uint32(attrIfType, uint32(typ))
	data, err := ae.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode attributes: %w", err)
	}

	req := genetlink.Message{
		Header: genetlink.Header{
			Command: cmdSetInterface,
			Version: c.family.Version,
		},
		Data: data,
	}

	if _, err := c.conn.Execute(req, c.family.ID, netlink.Request|netlink.Acknowledge); err != nil {
		return fmt.Errorf("failed to set interface type to %s: %w", typ, err)
	}
	return nil
}

// parseInterfaces decodes NEW_INTERFACE dump messages. Messages missing a
// required attribute are skipped, matching what incomplete drivers report.
func parseInterfaces(msgs []genetlink.Message) ([]Interface, error) {
	var ifaces []Interface

	for _, m := range msgs {
		ad, err := netlink.NewAttributeDecoder(m.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attributes: %w", err)
		}

		var (
			iface                 Interface
			haveIndex, haveIftype bool
		)
		for ad.Next() {
			switch ad.Type() {
			case attrIfIndex:
				iface.Index = ad.Uint32()
				haveIndex = true
			case attrWiphy:
				iface.PhyIndex = ad.Uint32()
			case attrIfName:
				iface.Name = ad.String()
			case attrIfType:
				iface.Type = InterfaceType(ad.Uint32())
				haveIftype = true
			}
		}
		if err := ad.Err(); err != nil {
			return nil, fmt.Errorf("failed to decode attributes: %w", err)
		}

		if !haveIndex || !haveIftype || iface.Name == "" {
			continue
		}
		ifaces = append(ifaces, iface)
	}

	return ifaces, nil
}

// parsePhys decodes GET_WIPHY dump messages. The kernel may split one phy
// across several messages, so attributes are merged by phy index.
func parsePhys(msgs []genetlink.Message) ([]Phy, error) {
	byIndex := make(map[uint32]*Phy)
	var order []uint32

	for _, m := range msgs {
		ad, err := netlink.NewAttributeDecoder(m.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode attributes: %w", err)
		}

		var (
			index     uint32
			haveIndex bool
			name      string
			types     []InterfaceType
		)
		for ad.Next() {
			switch ad.Type() {
			case attrWiphy:
				index = ad.Uint32()
				haveIndex = true
			case attrWiphyName:
				name = ad.String()
			case attrSupportedIftypes:
				ad.Nested(func(nad *netlink.AttributeDecoder) error {
					// Each nested attribute type is an iftype value.
					for nad.Next() {
						types = append(types, InterfaceType(nad.Type()))
					}
					return nil
				})
			}
		}
		if err := ad.Err(); err != nil {
			return nil, fmt.Errorf("failed to decode attributes: %w", err)
		}

		if !haveIndex {
			continue
		}

		phy, ok := byIndex[index]
		if !ok {
			phy = &Phy{Index: index}
			byIndex[index] = phy
			order = append(order, index)
		}
		if name != "" {
			phy.Name = name
		}
		if len(types) > 0 {
			phy.SupportedTypes = types
		}
	}

	phys := make([]Phy, 0, len(order))
	for _, idx := range order {
		phys = append(phys, *byIndex[idx])
	}
	return phys, nil
}
