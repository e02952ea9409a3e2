package vlsm

import (
	"errors"
	"testing"

	"topoplan/internal/domain/topology"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func mustIP(t *testing.T, s string) uint32 {
	t.Helper()
	ip, err := topology.ParseIP(s)
	if err != nil {
		t.Fatalf("ParseIP(%s) failed: %v", s, err)
	}
	return ip
}

func TestSubnetSize(t *testing.T) {
	tests := []struct {
		hosts int
		want  uint64
	}{
		{1, 4},
		{2, 8},
		{5, 8},
		{6, 16},
		{13, 16},
		{14, 32},
		{253, 256},
		{254, 512},
	}
	for _, tt := range tests {
		got, err := SubnetSize(tt.hosts)
		if err != nil {
			t.Fatalf("SubnetSize(%d) failed: %v", tt.hosts, err)
		}
		if got != tt.want {
			t.Errorf("SubnetSize(%d) = %d, want %d", tt.hosts, got, tt.want)
		}
	}
}

func TestSubnetSize_NonPositive(t *testing.T) {
	for _, h := range []int{0, -1} {
		if _, err := SubnetSize(h); !errors.Is(err, topology.ErrAddressSpaceExhausted) {
			t.Errorf("SubnetSize(%d): expected ErrAddressSpaceExhausted, got %v", h, err)
		}
	}
}

func TestPlan_LargestFirst(t *testing.T) {
	subnets, err := Plan(mustIP(t, "192.168.0.0"), []int{5, 13, 5, 30})
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	want := []struct {
		index int
		cidr  string
	}{
		{3, "192.168.0.0/26"},
		{1, "192.168.0.64/28"},
		{0, "192.168.0.80/29"},
		{2, "192.168.0.88/29"},
	}
	if len(subnets) != len(want) {
		t.Fatalf("Expected %d subnets, got %d", len(want), len(subnets))
	}
	for i, w := range want {
		if subnets[i].Index != w.index || subnets[i].CIDR() != w.cidr {
			t.Errorf("subnet %d = (%d, %s), want (%d, %s)", i, subnets[i].Index, subnets[i].CIDR(), w.index, w.cidr)
		}
	}
	if subnets[1].Gateway() != "192.168.0.65" {
		t.Errorf("Expected gateway 192.168.0.65, got %s", subnets[1].Gateway())
	}
}

func TestPlan_Errors(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		hosts []int
		want  error
	}{
		{"zero hosts", "10.0.0.0", []int{4, 0}, topology.ErrAddressSpaceExhausted},
		{"misaligned base", "10.0.0.8", []int{13}, topology.ErrInvalidInput},
		{"overflow", "255.255.255.0", []int{200, 100}, topology.ErrAddressSpaceExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subnets, err := Plan(mustIP(t, tt.base), tt.hosts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if subnets != nil {
				t.Error("Expected no partial result")
			}
		})
	}
}

func TestPlan_Empty(t *testing.T) {
	subnets, err := Plan(0, nil)
	if err != nil || len(subnets) != 0 {
		t.Errorf("Expected empty plan, got %v, %v", subnets, err)
	}
}

func TestProperty_PlanDisjointAndOrdered(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("subnets are disjoint, ascending and largest first",
		prop.ForAll(
			func(hosts []int) bool {
				subnets, err := Plan(mustIP(t, "10.0.0.0"), hosts)
				if err != nil || len(subnets) != len(hosts) {
					return false
				}
				seen := make(map[int]bool)
				for i, s := range subnets {
					if s.Size() < uint64(s.Hosts+topology.ReservedAddresses) || s.Hosts != hosts[s.Index] {
						return false
					}
					seen[s.Index] = true
					if i == 0 {
						continue
					}
					prev := subnets[i-1]
					if prev.Overlaps(s) || prev.Base >= s.Base || prev.Size() < s.Size() {
						return false
					}
				}
				return len(seen) == len(hosts)
			},
			gen.SliceOf(gen.IntRange(1, 2000)),
		))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestIterator(t *testing.T) {
	after := topology.Subnet{Base: mustIP(t, "192.168.0.112"), Prefix: 29}
	it := NewIterator(after)

	first, err := it.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	second, _ := it.Next()
	if first.CIDR() != "192.168.0.120/29" || second.CIDR() != "192.168.0.128/29" {
		t.Errorf("Unexpected blocks %s, %s", first.CIDR(), second.CIDR())
	}
	if first.Overlaps(after) || second.Overlaps(first) {
		t.Error("Expected successor blocks not to overlap")
	}
}

func TestIterator_Exhausted(t *testing.T) {
	it := NewIterator(topology.Subnet{Base: mustIP(t, "255.255.255.240"), Prefix: 29})
	if _, err := it.Next(); err != nil {
		t.Fatalf("Expected the last block to be issued, got %v", err)
	}
	if _, err := it.Next(); !errors.Is(err, topology.ErrAddressSpaceExhausted) {
		t.Errorf("Expected ErrAddressSpaceExhausted, got %v", err)
	}
}

func TestSupernet(t *testing.T) {
	subnets := []topology.Subnet{
		{Base: mustIP(t, "192.168.0.0"), Prefix: 27},
		{Base: mustIP(t, "192.168.0.32"), Prefix: 28},
		{Base: mustIP(t, "192.168.0.48"), Prefix: 28},
	}
	root, err := Supernet(subnets)
	if err != nil {
		t.Fatalf("Supernet failed: %v", err)
	}
	if root.CIDR() != "192.168.0.0/26" {
		t.Errorf("Expected 192.168.0.0/26, got %s", root.CIDR())
	}

	single, _ := Supernet(subnets[:1])
	if single.CIDR() != "192.168.0.0/26" {
		t.Errorf("Expected a strictly larger block, got %s", single.CIDR())
	}

	if _, err := Supernet(nil); !errors.Is(err, topology.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestHighest(t *testing.T) {
	subnets := []topology.Subnet{
		{Base: mustIP(t, "10.0.0.64"), Prefix: 29},
		{Base: mustIP(t, "10.0.0.0"), Prefix: 26},
	}
	h, ok := Highest(subnets)
	if !ok || h.CIDR() != "10.0.0.64/29" {
		t.Errorf("Expected 10.0.0.64/29, got %s", h.CIDR())
	}
}
