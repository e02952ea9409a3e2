package topology

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Mode selects how each VLAN's switches are wired together
type Mode int

const (
	// ModeFaultTolerant meshes all switches and dual-homes computers
	ModeFaultTolerant Mode = iota
	// ModeScalable reduces the switch mesh to a minimum spanning tree
	ModeScalable
)

func (m Mode) String() string {
	switch m {
	case ModeFaultTolerant:
		return "fault_tolerant"
	case ModeScalable:
		return "scalable"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the numeric form used by older clients (0, 1) as well as names
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "fault_tolerant", "fault-tolerant", "faulttolerant":
		return ModeFaultTolerant, nil
	case "1", "scalable":
		return ModeScalable, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, s)
}

// MarshalJSON encodes the mode by name
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a number or a name
func (m *Mode) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		parsed, err := ParseMode(strconv.Itoa(n))
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: mode must be a number or a name", ErrInvalidInput)
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

const (
	// AutoVLANCount sizes the VLAN count from the number of access devices
	AutoVLANCount = -1
	// DevicesPerVLAN is the broadcast domain capacity used when sizing automatically
	DevicesPerVLAN = 7
	// DefaultRoutingThreshold is the routing pool size from which a Core tier is built
	DefaultRoutingThreshold = 4
	// MaxCoreDevices caps the Core tier
	MaxCoreDevices = 2
	// MaxDevicesPerKind bounds every count of a request
	MaxDevicesPerKind = 4096
)

// PlanRequest holds the inputs of a planning run
type PlanRequest struct {
	Routers            int    `json:"routers"`
	MultilayerSwitches int    `json:"multilayer_switches"`
	Switches           int    `json:"switches"`
	Computers          int    `json:"computers"`
	Mode               Mode   `json:"mode"`
	IPBase             string `json:"ip_base"`
	VLANCount          int    `json:"vlan_count"`
	RoutingThreshold   int    `json:"routing_threshold,omitempty"`
}

// Threshold returns the routing threshold, falling back to the default
func (r PlanRequest) Threshold() int {
	if r.RoutingThreshold <= 0 {
		return DefaultRoutingThreshold
	}
	return r.RoutingThreshold
}

// Validate checks the request shape. Address checks happen during planning.
func (r PlanRequest) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"routers", r.Routers},
		{"multilayer_switches", r.MultilayerSwitches},
		{"switches", r.Switches},
		{"computers", r.Computers},
	}
	for _, c := range counts {
		if c.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, c.name)
		}
		if c.value > MaxDevicesPerKind {
			return fmt.Errorf("%w: %s must not exceed %d", ErrInvalidInput, c.name, MaxDevicesPerKind)
		}
	}
	if r.Mode != ModeFaultTolerant && r.Mode != ModeScalable {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidInput, int(r.Mode))
	}
	if r.VLANCount == 0 || r.VLANCount < AutoVLANCount {
		return fmt.Errorf("%w: vlan_count must be positive or %d", ErrInvalidInput, AutoVLANCount)
	}
	if r.RoutingThreshold < 0 {
		return fmt.Errorf("%w: routing_threshold must not be negative", ErrInvalidInput)
	}
	return nil
}

// Layers is the tier classification of every device
type Layers struct {
	Core         []Device `json:"core"`
	Distribution []Device `json:"distribution"`
	Access       []Device `json:"access"`
}

// Collapsed reports whether the hierarchy has no Core tier
func (l Layers) Collapsed() bool { return len(l.Core) == 0 }

// Plan is the complete output of a planning run
type Plan struct {
	Request          PlanRequest    `json:"request"`
	Devices          []Device       `json:"devices"`
	VLANs            []VLAN         `json:"vlans"`
	Layers           Layers         `json:"layers"`
	AccessGraph      *Graph         `json:"access_graph"`
	HierarchyGraph   *Graph         `json:"hierarchy_graph"`
	AccessConfigs    []DeviceConfig `json:"access_configs"`
	HierarchyConfigs []DeviceConfig `json:"hierarchy_configs"`
	LinkSubnets      []Subnet       `json:"link_subnets"`
}

// AccessSubnets returns the VLAN subnets in VLAN order
func (p *Plan) AccessSubnets() []Subnet {
	out := make([]Subnet, len(p.VLANs))
	for i, v := range p.VLANs {
		out[i] = v.Subnet
	}
	return out
}
