package topology

import (
	"testing"

	"topoplan/internal/domain/topology"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func referencePlan(t *testing.T) *topology.Plan {
	t.Helper()
	plan, err := PlanTopology(topology.PlanRequest{
		Routers:            2,
		MultilayerSwitches: 2,
		Switches:           4,
		Computers:          15,
		Mode:               topology.ModeScalable,
		IPBase:             "192.168.0.0",
		VLANCount:          topology.AutoVLANCount,
	})
	if err != nil {
		t.Fatalf("PlanTopology failed: %v", err)
	}
	return plan
}

func TestAllocateLinks_Reference(t *testing.T) {
	plan := referencePlan(t)

	wantLinks := []string{"192.168.0.48/28", "192.168.0.64/28", "192.168.0.80/28", "192.168.0.96/28"}
	if len(plan.LinkSubnets) != len(wantLinks) {
		t.Fatalf("Expected %d link subnets, got %d", len(wantLinks), len(plan.LinkSubnets))
	}
	for i, want := range wantLinks {
		if got := plan.LinkSubnets[i].CIDR(); got != want {
			t.Errorf("link %d = %s, want %s", i, got, want)
		}
	}

	dist, ok := topology.FindConfig("MultiLayerSwitch_1", plan.HierarchyConfigs)
	if !ok {
		t.Fatal("Expected a config for MultiLayerSwitch_1")
	}
	if dist.Role != topology.RoleDistribution || dist.IPAddress != "192.168.0.49" {
		t.Errorf("Unexpected distribution config: %+v", dist)
	}
	for _, line := range []string{"interface vlan 3", " ip address 192.168.0.33 255.255.255.240", "ip routing", "interface Gig0/1_to_Router_2", " ip address 192.168.0.65 255.255.255.240"} {
		if !containsLine(dist.Lines, line) {
			t.Errorf("Expected line %q in MultiLayerSwitch_1 config", line)
		}
	}

	core, _ := topology.FindConfig("Router_2", plan.HierarchyConfigs)
	if core.Role != topology.RoleCore || core.IPAddress != "192.168.0.66" {
		t.Errorf("Unexpected core config: %+v", core)
	}
	for _, line := range []string{"ip routing", "interface Gig0/1_to_MultiLayerSwitch_2", " ip address 192.168.0.98 255.255.255.240", "ip route 192.168.0.16 255.255.255.240 192.168.0.65"} {
		if !containsLine(core.Lines, line) {
			t.Errorf("Expected line %q in Router_2 config", line)
		}
	}
	if containsLine(core.Lines, "interface vlan 1") {
		t.Error("Core must not carry VLAN interfaces when Distribution exists")
	}
}

func TestAllocateLinks_Collapsed(t *testing.T) {
	plan, err := PlanTopology(topology.PlanRequest{
		Routers:            1,
		MultilayerSwitches: 1,
		Switches:           2,
		Computers:          6,
		Mode:               topology.ModeFaultTolerant,
		IPBase:             "10.0.0.0",
		VLANCount:          2,
	})
	if err != nil {
		t.Fatalf("PlanTopology failed: %v", err)
	}
	if len(plan.LinkSubnets) != 0 {
		t.Errorf("Expected no link subnets without a Core tier, got %d", len(plan.LinkSubnets))
	}
	if len(plan.HierarchyConfigs) != 2 {
		t.Fatalf("Expected 2 upper tier configs, got %d", len(plan.HierarchyConfigs))
	}
	for _, cfg := range plan.HierarchyConfigs {
		if cfg.Role != topology.RoleCore {
			t.Errorf("Expected %s to act as Core, got %s", cfg.Device, cfg.Role)
		}
		if !containsLine(cfg.Lines, "interface vlan 2") || !containsLine(cfg.Lines, "ip routing") {
			t.Errorf("Expected %s to carry the VLAN gateways, got %q", cfg.Device, cfg.Lines)
		}
		if cfg.IPAddress != "10.0.0.1" {
			t.Errorf("Expected %s addressed at the first gateway, got %s", cfg.Device, cfg.IPAddress)
		}
	}
}

func TestProperty_LinkSubnetsNeverReuseAccessSubnets(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("link subnets are disjoint from access subnets and from each other",
		prop.ForAll(
			func(routers, mls, switches, computers int, scalable bool) bool {
				mode := topology.ModeFaultTolerant
				if scalable {
					mode = topology.ModeScalable
				}
				plan, err := PlanTopology(topology.PlanRequest{
					Routers:            routers,
					MultilayerSwitches: mls,
					Switches:           switches,
					Computers:          computers,
					Mode:               mode,
					IPBase:             "172.16.0.0",
					VLANCount:          topology.AutoVLANCount,
				})
				if err != nil {
					return false
				}
				if routers+mls >= topology.DefaultRoutingThreshold && len(plan.LinkSubnets) == 0 {
					return false
				}
				all := append(plan.AccessSubnets(), plan.LinkSubnets...)
				for i := range all {
					for j := i + 1; j < len(all); j++ {
						if all[i].Overlaps(all[j]) {
							return false
						}
					}
				}
				return true
			},
			gen.IntRange(0, 4),
			gen.IntRange(0, 4),
			gen.IntRange(0, 12),
			gen.IntRange(1, 60),
			gen.Bool(),
		))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
