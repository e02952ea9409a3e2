package topology

import "errors"

// Planning errors
var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrAddressSpaceExhausted    = errors.New("address space exhausted")
	ErrInsufficientTopologyData = errors.New("insufficient topology data")
	ErrDisconnectedGraph        = errors.New("graph is disconnected")
	ErrSubnetOverlap            = errors.New("subnet overlaps an allocated subnet")
)

// Record errors
var (
	ErrTopologyNotFound    = errors.New("topology not found")
	ErrDeviceNotInTopology = errors.New("device not in topology")
)

// Provisioning errors
var (
	ErrProvisioningDisabled = errors.New("provisioning is not configured")
	ErrProvisioningFailed   = errors.New("provisioning failed")
)

// Authorization errors
var (
	ErrForbidden = errors.New("forbidden: topology belongs to another user")
)
