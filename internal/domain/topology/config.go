package topology

// Role describes what a device does in the plan
type Role string

const (
	RoleCore         Role = "core"
	RoleDistribution Role = "distribution"
	RoleAccessSwitch Role = "access-switch"
	RoleHost         Role = "host"
)

// DeviceConfig is the addressing and configuration record of one device.
// SubnetMask is the prefix length, Netmask the dotted form.
type DeviceConfig struct {
	Device     string   `json:"device"`
	Kind       Kind     `json:"kind"`
	Role       Role     `json:"role"`
	IPAddress  string   `json:"ip_address,omitempty"`
	SubnetMask int      `json:"subnet_mask,omitempty"`
	Netmask    string   `json:"netmask,omitempty"`
	VLANID     int      `json:"vlan_id,omitempty"`
	Gateway    string   `json:"gateway,omitempty"`
	Lines      []string `json:"lines,omitempty"`
}

// FindConfig returns the config of the named device from either list
func FindConfig(name string, lists ...[]DeviceConfig) (DeviceConfig, bool) {
	for _, list := range lists {
		for _, cfg := range list {
			if cfg.Device == name {
				return cfg, true
			}
		}
	}
	return DeviceConfig{}, false
}
