package topology

import (
	"fmt"

	"topoplan/internal/domain/topology"
)

// ConfigureAccess addresses every VLAN member from its VLAN subnet. Member k
// gets the address right after the gateway plus k. Switches also receive the
// VLAN, management interface and default gateway lines.
func ConfigureAccess(vlans []topology.VLAN) ([]topology.DeviceConfig, error) {
	var configs []topology.DeviceConfig
	for _, v := range vlans {
		gateway := v.Subnet.FirstUsable()
		for k, d := range v.Members {
			ip := uint64(gateway) + 1 + uint64(k)
			if ip > uint64(v.Subnet.LastUsable()) {
				return nil, fmt.Errorf("%w: vlan %d has no address left for %s",
					topology.ErrAddressSpaceExhausted, v.ID, d.Name)
			}
			cfg := topology.DeviceConfig{
				Device:     d.Name,
				Kind:       d.Kind,
				Role:       topology.RoleHost,
				IPAddress:  topology.FormatIP(uint32(ip)),
				SubnetMask: v.Subnet.Prefix,
				Netmask:    v.Subnet.Mask(),
				VLANID:     v.ID,
				Gateway:    v.Subnet.Gateway(),
			}
			if d.Kind == topology.KindSwitch {
				cfg.Role = topology.RoleAccessSwitch
				cfg.Lines = []string{
					fmt.Sprintf("vlan %d", v.ID),
					fmt.Sprintf(" name VLAN%d", v.ID),
					"!",
					fmt.Sprintf("interface vlan %d", v.ID),
					fmt.Sprintf(" ip address %s %s", cfg.IPAddress, cfg.Netmask),
					" no shutdown",
					"!",
					fmt.Sprintf("ip default-gateway %s", cfg.Gateway),
				}
			}
			configs = append(configs, cfg)
		}
	}
	return configs, nil
}
