package topology

import (
	"encoding/json"
	"fmt"
	"net/netip"
)

// ReservedAddresses counts the network, broadcast and gateway addresses of every access subnet
const ReservedAddresses = 3

// Subnet is one IPv4 block of an address plan.
// Index is the position of the host-count request the block was sized for.
type Subnet struct {
	Index  int    `json:"index"`
	Base   uint32 `json:"-"`
	Prefix int    `json:"prefix"`
	Hosts  int    `json:"hosts"`
}

// Size is the number of addresses in the block
func (s Subnet) Size() uint64 { return uint64(1) << (32 - s.Prefix) }

// End is the first address after the block
func (s Subnet) End() uint64 { return uint64(s.Base) + s.Size() }

// Network returns the network address
func (s Subnet) Network() string { return FormatIP(s.Base) }

// FirstUsable returns the first host address, which is the gateway
func (s Subnet) FirstUsable() uint32 { return s.Base + 1 }

// LastUsable returns the last host address before the broadcast
func (s Subnet) LastUsable() uint32 { return uint32(s.End() - 2) }

// Broadcast returns the broadcast address
func (s Subnet) Broadcast() uint32 { return uint32(s.End() - 1) }

// Gateway returns the gateway address
func (s Subnet) Gateway() string { return FormatIP(s.FirstUsable()) }

// Mask returns the dotted netmask, e.g. 255.255.255.240
func (s Subnet) Mask() string { return PrefixToMask(s.Prefix) }

// CIDR returns the block in a.b.c.d/len notation
func (s Subnet) CIDR() string { return fmt.Sprintf("%s/%d", FormatIP(s.Base), s.Prefix) }

// Contains reports whether ip lies inside the block
func (s Subnet) Contains(ip uint32) bool {
	return uint64(ip) >= uint64(s.Base) && uint64(ip) < s.End()
}

// Overlaps reports whether two blocks share any address
func (s Subnet) Overlaps(other Subnet) bool {
	return uint64(s.Base) < other.End() && uint64(other.Base) < s.End()
}

// MarshalJSON adds the derived addresses
func (s Subnet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index       int    `json:"index"`
		CIDR        string `json:"cidr"`
		Network     string `json:"network"`
		Prefix      int    `json:"prefix"`
		Netmask     string `json:"netmask"`
		Gateway     string `json:"gateway"`
		FirstUsable string `json:"first_usable"`
		LastUsable  string `json:"last_usable"`
		Broadcast   string `json:"broadcast"`
		Size        uint64 `json:"size"`
		Hosts       int    `json:"hosts"`
	}{
		Index:       s.Index,
		CIDR:        s.CIDR(),
		Network:     s.Network(),
		Prefix:      s.Prefix,
		Netmask:     s.Mask(),
		Gateway:     s.Gateway(),
		FirstUsable: FormatIP(s.FirstUsable()),
		LastUsable:  FormatIP(s.LastUsable()),
		Broadcast:   FormatIP(s.Broadcast()),
		Size:        s.Size(),
		Hosts:       s.Hosts,
	})
}

// ParseIP converts a dotted-quad IPv4 address to its 32-bit value
func ParseIP(ip string) (uint32, error) {
	addr, err := netip.ParseAddr(ip)
	if err != nil || !addr.Is4() {
		return 0, fmt.Errorf("%w: %q is not a dotted-quad IPv4 address", ErrInvalidInput, ip)
	}
	b := addr.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// FormatIP converts a 32-bit value to dotted-quad notation
func FormatIP(ip uint32) string {
	return netip.AddrFrom4([4]byte{byte(ip >> 24), byte(ip >> 16), byte(ip >> 8), byte(ip)}).String()
}

// PrefixToMask converts a prefix length to a dotted netmask
func PrefixToMask(prefix int) string {
	if prefix <= 0 {
		return "0.0.0.0"
	}
	return FormatIP(^uint32(0) << (32 - prefix))
}
