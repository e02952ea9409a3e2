package topology

import (
	"encoding/json"
	"fmt"
)

// Layer is the hierarchical tier of a device
type Layer int

const (
	LayerNone Layer = iota
	LayerCore
	LayerDistribution
	LayerAccess
)

var layerNames = map[Layer]string{
	LayerCore:         "Core",
	LayerDistribution: "Distribution",
	LayerAccess:       "Access",
}

func (l Layer) String() string {
	if name, ok := layerNames[l]; ok {
		return name
	}
	return ""
}

// MarshalJSON encodes the layer by name
func (l Layer) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a layer name, the empty string meaning no layer
func (l *Layer) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if name == "" {
		*l = LayerNone
		return nil
	}
	for layer, n := range layerNames {
		if n == name {
			*l = layer
			return nil
		}
	}
	return fmt.Errorf("%w: unknown layer %q", ErrInvalidInput, name)
}

// Node is a device vertex with its attributes
type Node struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind,omitempty"`
	VLAN  int    `json:"vlan,omitempty"`
	Layer Layer  `json:"layer,omitempty"`
}

// NodeFor returns the attribute-free node of a device
func NodeFor(d Device) Node {
	return Node{ID: d.Name, Kind: d.Kind}
}

// Edge connects two nodes. Weight is only meaningful for spanning tree input.
type Edge struct {
	From   string `json:"source"`
	To     string `json:"target"`
	Weight int    `json:"weight,omitempty"`
}

// Graph is an immutable simple graph over device names.
// Nodes and edges keep their insertion order.
type Graph struct {
	directed bool
	nodes    []Node
	index    map[string]int
	edges    []Edge
	incident map[string][]int
}

// Directed reports whether edges have an orientation
func (g *Graph) Directed() bool { return g.directed }

// Len returns the node count
func (g *Graph) Len() int { return len(g.nodes) }

// Nodes returns a copy of the nodes in insertion order
func (g *Graph) Nodes() []Node {
	return append([]Node(nil), g.nodes...)
}

// Edges returns a copy of the edges in insertion order
func (g *Graph) Edges() []Edge {
	return append([]Edge(nil), g.edges...)
}

// Node looks a node up by id
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// HasEdge reports whether a and b are adjacent, ignoring direction
func (g *Graph) HasEdge(a, b string) bool {
	for _, i := range g.incident[a] {
		e := g.edges[i]
		if (e.From == a && e.To == b) || (e.From == b && e.To == a) {
			return true
		}
	}
	return false
}

// Incident returns the edges touching id, oriented so that From is id
func (g *Graph) Incident(id string) []Edge {
	out := make([]Edge, 0, len(g.incident[id]))
	for _, i := range g.incident[id] {
		e := g.edges[i]
		if e.From != id {
			e.From, e.To = e.To, e.From
		}
		out = append(out, e)
	}
	return out
}

// Degree returns the number of edges touching id
func (g *Graph) Degree(id string) int { return len(g.incident[id]) }

// TotalWeight sums all edge weights
func (g *Graph) TotalWeight() int {
	total := 0
	for _, e := range g.edges {
		total += e.Weight
	}
	return total
}

// NodesIn returns the nodes tagged with the given layer
func (g *Graph) NodesIn(layer Layer) []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.Layer == layer {
			out = append(out, n)
		}
	}
	return out
}

// Relabel returns a new graph whose nodes are rewritten by fn. Node ids must not change.
func (g *Graph) Relabel(fn func(Node) Node) *Graph {
	b := NewGraphBuilder(g.directed)
	for _, n := range g.nodes {
		relabeled := fn(n)
		relabeled.ID = n.ID
		b.AddNode(relabeled)
	}
	for _, e := range g.edges {
		b.AddEdge(e.From, e.To, e.Weight)
	}
	out, _ := b.Build()
	return out
}

// WithVLAN returns a copy with every node tagged with the VLAN id
func (g *Graph) WithVLAN(vlan int) *Graph {
	return g.Relabel(func(n Node) Node {
		n.VLAN = vlan
		return n
	})
}

// Merge unions graphs with disjoint node sets into a new graph
func Merge(directed bool, graphs ...*Graph) (*Graph, error) {
	b := NewGraphBuilder(directed)
	for _, g := range graphs {
		if g.directed != directed {
			return nil, fmt.Errorf("%w: cannot merge graphs of different direction", ErrInvalidInput)
		}
		for _, n := range g.nodes {
			if _, exists := b.index[n.ID]; exists {
				return nil, fmt.Errorf("%w: node %s present in more than one graph", ErrInvalidInput, n.ID)
			}
			b.AddNode(n)
		}
		for _, e := range g.edges {
			b.AddEdge(e.From, e.To, e.Weight)
		}
	}
	return b.Build()
}

// GraphBuilder assembles a Graph. Adding a node twice overwrites its attributes
// in place, adding an edge twice or a self loop is a no-op.
type GraphBuilder struct {
	directed bool
	nodes    []Node
	index    map[string]int
	edges    []Edge
	seen     map[[2]string]struct{}
	err      error
}

// NewGraphBuilder starts an empty graph
func NewGraphBuilder(directed bool) *GraphBuilder {
	return &GraphBuilder{
		directed: directed,
		index:    make(map[string]int),
		seen:     make(map[[2]string]struct{}),
	}
}

// AddNode inserts or updates a node
func (b *GraphBuilder) AddNode(n Node) *GraphBuilder {
	if i, ok := b.index[n.ID]; ok {
		b.nodes[i] = n
		return b
	}
	b.index[n.ID] = len(b.nodes)
	b.nodes = append(b.nodes, n)
	return b
}

// AddEdge connects two existing nodes
func (b *GraphBuilder) AddEdge(from, to string, weight int) *GraphBuilder {
	if b.err != nil || from == to {
		return b
	}
	for _, id := range []string{from, to} {
		if _, ok := b.index[id]; !ok {
			b.err = fmt.Errorf("%w: edge endpoint %s is not a node", ErrInvalidInput, id)
			return b
		}
	}
	key := [2]string{from, to}
	if !b.directed && to < from {
		key = [2]string{to, from}
	}
	if _, dup := b.seen[key]; dup {
		return b
	}
	b.seen[key] = struct{}{}
	b.edges = append(b.edges, Edge{From: from, To: to, Weight: weight})
	return b
}

// Build freezes the graph. The builder must not be reused afterwards.
func (b *GraphBuilder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	g := &Graph{
		directed: b.directed,
		nodes:    b.nodes,
		index:    b.index,
		edges:    b.edges,
		incident: make(map[string][]int, len(b.nodes)),
	}
	for i, e := range g.edges {
		g.incident[e.From] = append(g.incident[e.From], i)
		g.incident[e.To] = append(g.incident[e.To], i)
	}
	return g, nil
}

// EmptyGraph returns a graph with no nodes
func EmptyGraph(directed bool) *Graph {
	g, _ := NewGraphBuilder(directed).Build()
	return g
}

type nodeLinkGraph struct {
	Directed   bool   `json:"directed"`
	Multigraph bool   `json:"multigraph"`
	Nodes      []Node `json:"nodes"`
	Links      []Edge `json:"links"`
}

// MarshalJSON writes the node-link form
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := nodeLinkGraph{Directed: g.directed, Nodes: g.nodes, Links: g.edges}
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Links == nil {
		out.Links = []Edge{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the node-link form
func (g *Graph) UnmarshalJSON(data []byte) error {
	var in nodeLinkGraph
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	b := NewGraphBuilder(in.Directed)
	for _, n := range in.Nodes {
		b.AddNode(n)
	}
	for _, e := range in.Links {
		b.AddEdge(e.From, e.To, e.Weight)
	}
	built, err := b.Build()
	if err != nil {
		return err
	}
	*g = *built
	return nil
}
