package topology

import "topoplan/internal/domain/topology"

// BuildHierarchy builds the directed inter-tier graph. Core devices link to
// every Distribution device. Without a Core tier the Distribution devices are
// tagged Core instead and take over the uplinks. The aggregation tier then
// links to every main access switch and is meshed pairwise.
func BuildHierarchy(core, distribution, mainSwitches []topology.Device) (*topology.Graph, error) {
	b := topology.NewGraphBuilder(true)

	aggregationLayer := topology.LayerDistribution
	if len(core) == 0 {
		aggregationLayer = topology.LayerCore
	}

	for _, d := range core {
		b.AddNode(layerNode(d, topology.LayerCore))
	}
	for _, d := range distribution {
		b.AddNode(layerNode(d, aggregationLayer))
	}
	for _, d := range mainSwitches {
		b.AddNode(layerNode(d, topology.LayerAccess))
	}

	for _, c := range core {
		for _, d := range distribution {
			b.AddEdge(c.Name, d.Name, 0)
		}
	}
	for _, d := range distribution {
		for _, s := range mainSwitches {
			b.AddEdge(d.Name, s.Name, 0)
		}
	}
	for i := range distribution {
		for j := i + 1; j < len(distribution); j++ {
			b.AddEdge(distribution[i].Name, distribution[j].Name, 0)
		}
	}
	return b.Build()
}

func layerNode(d topology.Device, layer topology.Layer) topology.Node {
	n := topology.NodeFor(d)
	n.Layer = layer
	return n
}
