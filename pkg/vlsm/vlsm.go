// Package vlsm sizes and lays out variable length IPv4 subnets.
package vlsm

import (
	"fmt"
	"math/bits"
	"sort"

	"topoplan/internal/domain/topology"
)

const addressSpace = uint64(1) << 32

// SubnetSize returns the smallest power of two that holds hosts plus the
// network, broadcast and gateway addresses.
func SubnetSize(hosts int) (uint64, error) {
	if hosts <= 0 {
		return 0, fmt.Errorf("%w: host count must be positive, got %d", topology.ErrAddressSpaceExhausted, hosts)
	}
	need := uint64(hosts) + topology.ReservedAddresses
	if need > addressSpace {
		return 0, fmt.Errorf("%w: %d hosts do not fit in IPv4", topology.ErrAddressSpaceExhausted, hosts)
	}
	size := uint64(1)
	for size < need {
		size <<= 1
	}
	return size, nil
}

// PrefixLength converts a power of two block size into a prefix length
func PrefixLength(size uint64) int {
	return 32 - bits.TrailingZeros64(size)
}

// Plan allocates one subnet per host count starting at base. Larger blocks are
// placed first and equal sizes keep request order, so the result is ascending
// by base address and each subnet carries the index of its request.
func Plan(base uint32, hosts []int) ([]topology.Subnet, error) {
	type request struct {
		index int
		hosts int
		size  uint64
	}

	reqs := make([]request, 0, len(hosts))
	for i, h := range hosts {
		size, err := SubnetSize(h)
		if err != nil {
			return nil, fmt.Errorf("subnet %d: %w", i, err)
		}
		reqs = append(reqs, request{index: i, hosts: h, size: size})
	}
	if len(reqs) == 0 {
		return []topology.Subnet{}, nil
	}

	sort.SliceStable(reqs, func(a, b int) bool { return reqs[a].size > reqs[b].size })

	if uint64(base)%reqs[0].size != 0 {
		return nil, fmt.Errorf("%w: base %s is not aligned to a /%d block",
			topology.ErrInvalidInput, topology.FormatIP(base), PrefixLength(reqs[0].size))
	}

	subnets := make([]topology.Subnet, 0, len(reqs))
	cursor := uint64(base)
	for _, r := range reqs {
		if cursor+r.size > addressSpace {
			return nil, fmt.Errorf("%w: no room for a /%d block after %s",
				topology.ErrAddressSpaceExhausted, PrefixLength(r.size), topology.FormatIP(uint32(cursor-1)))
		}
		subnets = append(subnets, topology.Subnet{
			Index:  r.index,
			Base:   uint32(cursor),
			Prefix: PrefixLength(r.size),
			Hosts:  r.hosts,
		})
		cursor += r.size
	}
	return subnets, nil
}

// Highest returns the subnet with the greatest last usable address
func Highest(subnets []topology.Subnet) (topology.Subnet, bool) {
	if len(subnets) == 0 {
		return topology.Subnet{}, false
	}
	best := subnets[0]
	for _, s := range subnets[1:] {
		if s.LastUsable() > best.LastUsable() {
			best = s
		}
	}
	return best, true
}

// Supernet returns the smallest CIDR block strictly larger than every given
// subnet that still contains all of them.
func Supernet(subnets []topology.Subnet) (topology.Subnet, error) {
	if len(subnets) == 0 {
		return topology.Subnet{}, fmt.Errorf("%w: no subnets to cover", topology.ErrInvalidInput)
	}
	low, high := uint64(subnets[0].Base), subnets[0].End()
	shortest := subnets[0].Prefix
	for _, s := range subnets[1:] {
		low = min(low, uint64(s.Base))
		high = max(high, s.End())
		shortest = min(shortest, s.Prefix)
	}
	for prefix := shortest - 1; prefix >= 0; prefix-- {
		size := uint64(1) << (32 - prefix)
		start := low &^ (size - 1)
		if start+size >= high {
			return topology.Subnet{Index: -1, Base: uint32(start), Prefix: prefix}, nil
		}
	}
	return topology.Subnet{}, fmt.Errorf("%w: subnets span the whole address space", topology.ErrAddressSpaceExhausted)
}
