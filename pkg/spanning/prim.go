// Package spanning computes minimum spanning trees over topology graphs.
package spanning

import (
	"container/heap"
	"fmt"

	"topoplan/internal/domain/topology"
)

// queuedEdge is a candidate tree edge. seq orders equal weights by insertion.
type queuedEdge struct {
	edge topology.Edge
	seq  int
}

// edgeHeap implements a min-heap of candidate edges by weight.
type edgeHeap []queuedEdge

func (h edgeHeap) Len() int { return len(h) }
func (h edgeHeap) Less(i, j int) bool {
	if h[i].edge.Weight != h[j].edge.Weight {
		return h[i].edge.Weight < h[j].edge.Weight
	}
	return h[i].seq < h[j].seq
}
func (h edgeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *edgeHeap) Push(x any) {
	*h = append(*h, x.(queuedEdge))
}

func (h *edgeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Prim returns a minimum spanning tree of g grown from its first node.
// The tree keeps every node with its attributes. Direction is ignored.
// A graph with nodes unreachable from the start yields ErrDisconnectedGraph.
func Prim(g *topology.Graph) (*topology.Graph, error) {
	nodes := g.Nodes()
	b := topology.NewGraphBuilder(false)
	for _, n := range nodes {
		b.AddNode(n)
	}
	if len(nodes) == 0 {
		return b.Build()
	}

	visited := make(map[string]bool, len(nodes))
	h := &edgeHeap{}
	seq := 0
	visit := func(id string) {
		visited[id] = true
		for _, e := range g.Incident(id) {
			if !visited[e.To] {
				heap.Push(h, queuedEdge{edge: e, seq: seq})
				seq++
			}
		}
	}

	visit(nodes[0].ID)
	for h.Len() > 0 && len(visited) < len(nodes) {
		next := heap.Pop(h).(queuedEdge)
		if visited[next.edge.To] {
			continue
		}
		b.AddEdge(next.edge.From, next.edge.To, next.edge.Weight)
		visit(next.edge.To)
	}

	if len(visited) < len(nodes) {
		return nil, fmt.Errorf("%w: %d of %d nodes reachable from %s",
			topology.ErrDisconnectedGraph, len(visited), len(nodes), nodes[0].ID)
	}
	return b.Build()
}
