package topology

import (
	"fmt"

	"topoplan/internal/domain/topology"
)

// GroupDevices deals access devices into VLAN buckets round-robin, switches first.
// vlanCount -1 sizes the bucket count at one VLAN per seven devices.
// Buckets may end up without any switch; that is left to the caller.
func GroupDevices(switches, computers []topology.Device, vlanCount int) ([][]topology.Device, error) {
	total := len(switches) + len(computers)
	if total == 0 {
		return nil, fmt.Errorf("%w: no access devices to group", topology.ErrInsufficientTopologyData)
	}

	n := vlanCount
	switch {
	case n == topology.AutoVLANCount:
		n = (total + topology.DevicesPerVLAN - 1) / topology.DevicesPerVLAN
	case n <= 0:
		return nil, fmt.Errorf("%w: vlan count must be positive, got %d", topology.ErrInvalidInput, vlanCount)
	case n > total:
		return nil, fmt.Errorf("%w: %d VLANs requested for %d access devices", topology.ErrInvalidInput, n, total)
	}

	buckets := make([][]topology.Device, n)
	i := 0
	for _, pool := range [][]topology.Device{switches, computers} {
		for _, d := range pool {
			buckets[i%n] = append(buckets[i%n], d)
			i++
		}
	}
	return buckets, nil
}
