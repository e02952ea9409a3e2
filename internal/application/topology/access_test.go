package topology

import (
	"errors"
	"testing"

	"topoplan/internal/domain/topology"
)

func TestConfigureAccess(t *testing.T) {
	base, _ := topology.ParseIP("10.1.0.16")
	v := vlanOf(2, 1, 2)
	v.Subnet = topology.Subnet{Base: base, Prefix: 29, Hosts: 3}

	configs, err := ConfigureAccess([]topology.VLAN{v})
	if err != nil {
		t.Fatalf("ConfigureAccess failed: %v", err)
	}
	if len(configs) != 3 {
		t.Fatalf("Expected 3 configs, got %d", len(configs))
	}

	sw := configs[0]
	if sw.Device != "Switch_1" || sw.Role != topology.RoleAccessSwitch {
		t.Errorf("Unexpected switch config: %+v", sw)
	}
	if sw.IPAddress != "10.1.0.18" || sw.Gateway != "10.1.0.17" || sw.SubnetMask != 29 || sw.VLANID != 2 {
		t.Errorf("Unexpected switch addressing: %+v", sw)
	}
	wantLines := []string{"vlan 2", " name VLAN2", "!", "interface vlan 2", " ip address 10.1.0.18 255.255.255.248", " no shutdown", "!", "ip default-gateway 10.1.0.17"}
	if !equalNames(sw.Lines, wantLines) {
		t.Errorf("Lines = %q, want %q", sw.Lines, wantLines)
	}

	host := configs[2]
	if host.Device != "Computer_2" || host.IPAddress != "10.1.0.20" || host.Role != topology.RoleHost || len(host.Lines) != 0 {
		t.Errorf("Unexpected host config: %+v", host)
	}
}

func TestConfigureAccess_SubnetTooSmall(t *testing.T) {
	v := vlanOf(1, 2, 4)
	v.Subnet = topology.Subnet{Base: 0x0A000000, Prefix: 29, Hosts: 6}
	if _, err := ConfigureAccess([]topology.VLAN{v}); !errors.Is(err, topology.ErrAddressSpaceExhausted) {
		t.Errorf("Expected ErrAddressSpaceExhausted, got %v", err)
	}
}
