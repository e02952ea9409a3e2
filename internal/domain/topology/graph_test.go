package topology

import (
	"encoding/json"
	"errors"
	"testing"
)

func buildTriangle(t *testing.T) *Graph {
	t.Helper()
	b := NewGraphBuilder(false)
	for _, id := range []string{"A", "B", "C"} {
		b.AddNode(Node{ID: id, Kind: KindSwitch})
	}
	b.AddEdge("A", "B", 1).AddEdge("B", "C", 2).AddEdge("C", "A", 3)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestGraphBuilder_SimpleEdges(t *testing.T) {
	b := NewGraphBuilder(false)
	b.AddNode(Node{ID: "A"}).AddNode(Node{ID: "B"})
	b.AddEdge("A", "B", 1).AddEdge("B", "A", 7).AddEdge("A", "A", 1)
	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(g.Edges()) != 1 {
		t.Fatalf("Expected 1 edge, got %d", len(g.Edges()))
	}
	if g.Edges()[0].Weight != 1 {
		t.Errorf("Expected first inserted weight to win, got %d", g.Edges()[0].Weight)
	}
}

func TestGraphBuilder_DirectedKeepsBothOrientations(t *testing.T) {
	b := NewGraphBuilder(true)
	b.AddNode(Node{ID: "A"}).AddNode(Node{ID: "B"})
	b.AddEdge("A", "B", 0).AddEdge("B", "A", 0)
	g, _ := b.Build()
	if len(g.Edges()) != 2 {
		t.Errorf("Expected 2 directed edges, got %d", len(g.Edges()))
	}
}

func TestGraphBuilder_UnknownEndpoint(t *testing.T) {
	b := NewGraphBuilder(false)
	b.AddNode(Node{ID: "A"})
	b.AddEdge("A", "missing", 1)
	if _, err := b.Build(); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestGraph_Incident(t *testing.T) {
	g := buildTriangle(t)
	edges := g.Incident("A")
	if len(edges) != 2 {
		t.Fatalf("Expected 2 incident edges, got %d", len(edges))
	}
	for _, e := range edges {
		if e.From != "A" {
			t.Errorf("Expected incident edge oriented from A, got %+v", e)
		}
	}
	if !g.HasEdge("C", "A") || !g.HasEdge("A", "C") {
		t.Error("Expected HasEdge to ignore direction")
	}
	if g.TotalWeight() != 6 {
		t.Errorf("Expected total weight 6, got %d", g.TotalWeight())
	}
}

func TestGraph_WithVLANIsPure(t *testing.T) {
	g := buildTriangle(t)
	tagged := g.WithVLAN(3)

	for _, n := range g.Nodes() {
		if n.VLAN != 0 {
			t.Errorf("Original node %s was mutated", n.ID)
		}
	}
	for _, n := range tagged.Nodes() {
		if n.VLAN != 3 {
			t.Errorf("Expected node %s tagged with VLAN 3, got %d", n.ID, n.VLAN)
		}
	}
	if len(tagged.Edges()) != len(g.Edges()) {
		t.Error("Expected relabel to keep edges")
	}
}

func TestMerge(t *testing.T) {
	left := buildTriangle(t)
	b := NewGraphBuilder(false)
	b.AddNode(Node{ID: "D"}).AddNode(Node{ID: "E"}).AddEdge("D", "E", 4)
	right, _ := b.Build()

	merged, err := Merge(false, left, right)
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if merged.Len() != 5 || len(merged.Edges()) != 4 {
		t.Errorf("Expected 5 nodes and 4 edges, got %d and %d", merged.Len(), len(merged.Edges()))
	}
	if left.Len() != 3 {
		t.Error("Expected inputs to be left untouched")
	}

	if _, err := Merge(false, left, left); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for overlapping node sets, got %v", err)
	}
	if _, err := Merge(true, left); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for direction mismatch, got %v", err)
	}
}

func TestGraph_NodeLinkJSON(t *testing.T) {
	b := NewGraphBuilder(true)
	b.AddNode(Node{ID: "Router_1", Kind: KindRouter, Layer: LayerCore})
	b.AddNode(Node{ID: "Switch_1", Kind: KindSwitch, Layer: LayerAccess, VLAN: 1})
	b.AddEdge("Router_1", "Switch_1", 0)
	g, _ := b.Build()

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal into map failed: %v", err)
	}
	if raw["directed"] != true {
		t.Error("Expected directed flag in output")
	}
	links := raw["links"].([]any)
	link := links[0].(map[string]any)
	if link["source"] != "Router_1" || link["target"] != "Switch_1" {
		t.Errorf("Unexpected link encoding: %v", link)
	}

	var back Graph
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	n, ok := back.Node("Switch_1")
	if !ok || n.Kind != KindSwitch || n.Layer != LayerAccess || n.VLAN != 1 {
		t.Errorf("Unexpected decoded node: %+v", n)
	}
	if !back.Directed() || !back.HasEdge("Router_1", "Switch_1") {
		t.Error("Expected decoded graph to keep direction and edges")
	}
}

func TestEmptyGraph_JSON(t *testing.T) {
	data, err := json.Marshal(EmptyGraph(false))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"directed":false,"multigraph":false,"nodes":[],"links":[]}`
	if string(data) != want {
		t.Errorf("Expected %s, got %s", want, data)
	}
}
