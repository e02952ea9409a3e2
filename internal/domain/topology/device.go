package topology

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the hardware class of a device
type Kind int

const (
	KindRouter Kind = iota + 1
	KindMultilayerSwitch
	KindSwitch
	KindComputer
)

var kindNames = map[Kind]string{
	KindRouter:           "Router",
	KindMultilayerSwitch: "MultiLayerSwitch",
	KindSwitch:           "Switch",
	KindComputer:         "Computer",
}

// String returns the device class name used in device names and configs
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// RoutingCapable reports whether devices of this kind can route between subnets
func (k Kind) RoutingCapable() bool {
	return k == KindRouter || k == KindMultilayerSwitch
}

// MarshalJSON encodes the kind by name
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name
func (k *Kind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseKind(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind converts a kind name back to a Kind
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown device kind %q", ErrInvalidInput, name)
}

// Device is a single network element taking part in a plan.
type Device struct {
	Name           string `json:"name"`
	Ordinal        int    `json:"ordinal"`
	Kind           Kind   `json:"kind"`
	RoutingCapable bool   `json:"routing_capable"`
}

// NewDevice builds the device with the given 1-based ordinal, e.g. Switch_3
func NewDevice(kind Kind, ordinal int) Device {
	return Device{
		Name:           fmt.Sprintf("%s_%d", kind, ordinal),
		Ordinal:        ordinal,
		Kind:           kind,
		RoutingCapable: kind.RoutingCapable(),
	}
}

// NewDevices builds count devices of one kind numbered from 1
func NewDevices(kind Kind, count int) []Device {
	devices := make([]Device, 0, count)
	for i := 1; i <= count; i++ {
		devices = append(devices, NewDevice(kind, i))
	}
	return devices
}

// Names returns the device names in order
func Names(devices []Device) []string {
	names := make([]string, len(devices))
	for i, d := range devices {
		names[i] = d.Name
	}
	return names
}
