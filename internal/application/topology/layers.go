package topology

import "topoplan/internal/domain/topology"

// AssignLayers classifies devices into tiers. Routers and multilayer switches
// form the routing pool, routers first. A pool smaller than threshold has no
// Core tier; otherwise the first two pool devices become Core.
func AssignLayers(routers, multilayer, switches, computers []topology.Device, threshold int) topology.Layers {
	if threshold <= 0 {
		threshold = topology.DefaultRoutingThreshold
	}
	pool := make([]topology.Device, 0, len(routers)+len(multilayer))
	pool = append(pool, routers...)
	pool = append(pool, multilayer...)

	access := make([]topology.Device, 0, len(switches)+len(computers))
	access = append(access, switches...)
	access = append(access, computers...)

	if len(pool) < threshold {
		return topology.Layers{Distribution: pool, Access: access}
	}
	core := min(len(pool), topology.MaxCoreDevices)
	return topology.Layers{
		Core:         pool[:core:core],
		Distribution: pool[core:],
		Access:       access,
	}
}
