package topology

import (
	"fmt"

	"topoplan/internal/domain/topology"
	"topoplan/pkg/vlsm"
)

// link is one addressed Distribution to Core edge
type link struct {
	dist   string
	core   string
	subnet topology.Subnet
}

func (l link) distIP() uint32 { return l.subnet.FirstUsable() }
func (l link) coreIP() uint32 { return l.subnet.FirstUsable() + 1 }

// AllocateLinks addresses every Distribution to Core edge of the hierarchy
// with a block the size of the highest access subnet, taken right after it,
// and renders the routing configuration of both upper tiers.
//
// The gateway tier holds the VLAN interfaces: the Distribution devices, or the
// Core devices when the hierarchy is collapsed.
func AllocateLinks(h *topology.Graph, vlans []topology.VLAN) ([]topology.DeviceConfig, []topology.Subnet, error) {
	subnets := make([]topology.Subnet, len(vlans))
	for i, v := range vlans {
		subnets[i] = v.Subnet
	}
	highest, ok := vlsm.Highest(subnets)
	if !ok {
		return nil, nil, fmt.Errorf("%w: no access subnets to route", topology.ErrInsufficientTopologyData)
	}

	cores := h.NodesIn(topology.LayerCore)
	dists := h.NodesIn(topology.LayerDistribution)
	collapsed := len(dists) == 0

	it := vlsm.NewIterator(highest)
	var links []link
	for _, d := range dists {
		for _, c := range cores {
			if !h.HasEdge(d.ID, c.ID) {
				continue
			}
			s, err := it.Next()
			if err != nil {
				return nil, nil, fmt.Errorf("link %s to %s: %w", d.ID, c.ID, err)
			}
			links = append(links, link{dist: d.ID, core: c.ID, subnet: s})
		}
	}

	configs := make([]topology.DeviceConfig, 0, len(dists)+len(cores))
	for _, d := range dists {
		cfg := upperConfig(d, topology.RoleDistribution)
		cfg.Lines = append(cfg.Lines, sviLines(vlans)...)
		cfg.Lines = append(cfg.Lines, "ip routing", "!")
		for _, l := range links {
			if l.dist == d.ID {
				cfg.Lines = append(cfg.Lines, interfaceLines(l.core, l.distIP(), l.subnet)...)
				setAddress(&cfg, l.distIP(), l.subnet)
			}
		}
		if cfg.IPAddress == "" {
			setAddress(&cfg, vlans[0].Subnet.FirstUsable(), vlans[0].Subnet)
		}
		configs = append(configs, cfg)
	}

	for _, c := range cores {
		cfg := upperConfig(c, topology.RoleCore)
		if collapsed {
			cfg.Lines = append(cfg.Lines, sviLines(vlans)...)
			setAddress(&cfg, vlans[0].Subnet.FirstUsable(), vlans[0].Subnet)
		}
		cfg.Lines = append(cfg.Lines, "ip routing", "!")

		var nextHop *link
		for i, l := range links {
			if l.core != c.ID {
				continue
			}
			cfg.Lines = append(cfg.Lines, interfaceLines(l.dist, l.coreIP(), l.subnet)...)
			setAddress(&cfg, l.coreIP(), l.subnet)
			if nextHop == nil {
				nextHop = &links[i]
			}
		}
		if nextHop != nil {
			for _, v := range vlans {
				cfg.Lines = append(cfg.Lines, fmt.Sprintf("ip route %s %s %s",
					v.Subnet.Network(), v.Subnet.Mask(), topology.FormatIP(nextHop.distIP())))
			}
		}
		configs = append(configs, cfg)
	}

	linkSubnets := make([]topology.Subnet, len(links))
	for i, l := range links {
		linkSubnets[i] = l.subnet
	}
	return configs, linkSubnets, nil
}

func upperConfig(n topology.Node, role topology.Role) topology.DeviceConfig {
	return topology.DeviceConfig{Device: n.ID, Kind: n.Kind, Role: role}
}

// setAddress records the first address a device is given
func setAddress(cfg *topology.DeviceConfig, ip uint32, s topology.Subnet) {
	if cfg.IPAddress != "" {
		return
	}
	cfg.IPAddress = topology.FormatIP(ip)
	cfg.SubnetMask = s.Prefix
	cfg.Netmask = s.Mask()
}

func sviLines(vlans []topology.VLAN) []string {
	lines := make([]string, 0, 4*len(vlans))
	for _, v := range vlans {
		lines = append(lines,
			fmt.Sprintf("interface vlan %d", v.ID),
			fmt.Sprintf(" ip address %s %s", v.Subnet.Gateway(), v.Subnet.Mask()),
			" no shutdown",
			"!",
		)
	}
	return lines
}

func interfaceLines(peer string, ip uint32, s topology.Subnet) []string {
	return []string{
		fmt.Sprintf("interface Gig0/1_to_%s", peer),
		fmt.Sprintf(" ip address %s %s", topology.FormatIP(ip), s.Mask()),
		" no shutdown",
		"!",
	}
}
