package topology

import (
	"fmt"

	"topoplan/internal/domain/topology"
	"topoplan/pkg/spanning"
)

// SynthesizeAccess builds the access layer graph: one subgraph per VLAN,
// each node tagged with its VLAN id, merged into a single undirected graph.
func SynthesizeAccess(vlans []topology.VLAN, mode topology.Mode) (*topology.Graph, error) {
	graphs := make([]*topology.Graph, 0, len(vlans))
	for _, v := range vlans {
		var (
			g   *topology.Graph
			err error
		)
		switch mode {
		case topology.ModeFaultTolerant:
			g, err = faultTolerant(v.Switches(), v.Computers())
		case topology.ModeScalable:
			g, err = scalable(v.Switches(), v.Computers())
		default:
			return nil, fmt.Errorf("%w: unknown mode %d", topology.ErrInvalidInput, int(mode))
		}
		if err != nil {
			return nil, fmt.Errorf("vlan %d: %w", v.ID, err)
		}
		graphs = append(graphs, g.WithVLAN(v.ID))
	}
	return topology.Merge(false, graphs...)
}

func accessNode(d topology.Device) topology.Node {
	n := topology.NodeFor(d)
	n.Layer = topology.LayerAccess
	return n
}

// faultTolerant meshes every switch pair and homes each computer on two
// neighbouring switches in round-robin order.
func faultTolerant(switches, computers []topology.Device) (*topology.Graph, error) {
	b := topology.NewGraphBuilder(false)
	for _, s := range switches {
		b.AddNode(accessNode(s))
	}
	for i := range switches {
		for j := i + 1; j < len(switches); j++ {
			b.AddEdge(switches[i].Name, switches[j].Name, 0)
		}
	}
	attachComputers(b, switches, computers, true)
	return b.Build()
}

// scalable keeps a minimum spanning tree of the switch mesh and homes each
// computer on a single switch.
func scalable(switches, computers []topology.Device) (*topology.Graph, error) {
	mesh := topology.NewGraphBuilder(false)
	for _, s := range switches {
		mesh.AddNode(accessNode(s))
	}
	for i := range switches {
		for j := i + 1; j < len(switches); j++ {
			mesh.AddEdge(switches[i].Name, switches[j].Name, i+j)
		}
	}
	complete, err := mesh.Build()
	if err != nil {
		return nil, err
	}
	tree, err := spanning.Prim(complete)
	if err != nil {
		return nil, err
	}

	b := topology.NewGraphBuilder(false)
	for _, n := range tree.Nodes() {
		b.AddNode(n)
	}
	for _, e := range tree.Edges() {
		b.AddEdge(e.From, e.To, e.Weight)
	}
	attachComputers(b, switches, computers, false)
	return b.Build()
}

// attachComputers links computer i to switch i mod n, and to switch (i+1) mod n
// when dual homed. Without switches computers stay unconnected.
func attachComputers(b *topology.GraphBuilder, switches, computers []topology.Device, dual bool) {
	n := len(switches)
	for i, c := range computers {
		b.AddNode(accessNode(c))
		if n == 0 {
			continue
		}
		b.AddEdge(c.Name, switches[i%n].Name, 0)
		if dual {
			b.AddEdge(c.Name, switches[(i+1)%n].Name, 0)
		}
	}
}
