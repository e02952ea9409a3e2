package vlsm

import (
	"fmt"

	"topoplan/internal/domain/topology"
)

// LinkHosts is the number of addresses used on a point to point link
const LinkHosts = 2

// Iterator hands out consecutive blocks of one size. It keeps the next
// free address and fails once the address space is used up.
type Iterator struct {
	size   uint64
	next   uint64
	issued int
}

// NewIterator starts right after the given subnet with blocks of the same size
func NewIterator(after topology.Subnet) *Iterator {
	return &Iterator{size: after.Size(), next: after.End()}
}

// Next returns the following block
func (it *Iterator) Next() (topology.Subnet, error) {
	if it.next+it.size > addressSpace {
		return topology.Subnet{}, fmt.Errorf("%w: no /%d block left after %d link subnets",
			topology.ErrAddressSpaceExhausted, PrefixLength(it.size), it.issued)
	}
	s := topology.Subnet{
		Index:  it.issued,
		Base:   uint32(it.next),
		Prefix: PrefixLength(it.size),
		Hosts:  LinkHosts,
	}
	it.next += it.size
	it.issued++
	return s, nil
}
