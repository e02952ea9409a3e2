package topology

import (
	"fmt"

	"topoplan/internal/domain/topology"
	"topoplan/pkg/vlsm"
)

// PlanTopology runs the whole planning pipeline for one request: expand the
// device counts, bucket the access devices into VLANs, size their subnets,
// wire each VLAN, configure the access devices, tier the routing devices,
// build the hierarchy and address its uplinks.
//
// It is pure and safe for concurrent use. Any failure returns no plan at all.
func PlanTopology(req topology.PlanRequest) (*topology.Plan, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	base, err := topology.ParseIP(req.IPBase)
	if err != nil {
		return nil, err
	}

	routers := topology.NewDevices(topology.KindRouter, req.Routers)
	multilayer := topology.NewDevices(topology.KindMultilayerSwitch, req.MultilayerSwitches)
	switches := topology.NewDevices(topology.KindSwitch, req.Switches)
	computers := topology.NewDevices(topology.KindComputer, req.Computers)

	buckets, err := GroupDevices(switches, computers, req.VLANCount)
	if err != nil {
		return nil, fmt.Errorf("grouping devices: %w", err)
	}

	hosts := make([]int, len(buckets))
	for i, b := range buckets {
		hosts[i] = len(b)
	}
	subnets, err := vlsm.Plan(base, hosts)
	if err != nil {
		return nil, fmt.Errorf("planning subnets: %w", err)
	}
	vlans := make([]topology.VLAN, len(buckets))
	for _, s := range subnets {
		vlans[s.Index] = topology.VLAN{ID: s.Index + 1, Members: buckets[s.Index], Subnet: s}
	}

	accessGraph, err := SynthesizeAccess(vlans, req.Mode)
	if err != nil {
		return nil, fmt.Errorf("synthesizing access layer: %w", err)
	}
	accessConfigs, err := ConfigureAccess(vlans)
	if err != nil {
		return nil, fmt.Errorf("configuring access layer: %w", err)
	}

	layers := AssignLayers(routers, multilayer, switches, computers, req.Threshold())
	var mainSwitches []topology.Device
	for _, v := range vlans {
		if s, ok := v.MainSwitch(); ok {
			mainSwitches = append(mainSwitches, s)
		}
	}
	hierarchy, err := BuildHierarchy(layers.Core, layers.Distribution, mainSwitches)
	if err != nil {
		return nil, fmt.Errorf("building hierarchy: %w", err)
	}
	hierarchyConfigs, linkSubnets, err := AllocateLinks(hierarchy, vlans)
	if err != nil {
		return nil, fmt.Errorf("allocating links: %w", err)
	}

	devices := make([]topology.Device, 0, len(routers)+len(multilayer)+len(switches)+len(computers))
	for _, pool := range [][]topology.Device{routers, multilayer, switches, computers} {
		devices = append(devices, pool...)
	}

	return &topology.Plan{
		Request:          req,
		Devices:          devices,
		VLANs:            vlans,
		Layers:           layers,
		AccessGraph:      accessGraph,
		HierarchyGraph:   hierarchy,
		AccessConfigs:    accessConfigs,
		HierarchyConfigs: hierarchyConfigs,
		LinkSubnets:      linkSubnets,
	}, nil
}
