package topology

import (
	"context"
	"time"
)

// Record is a persisted plan
type Record struct {
	ID               string         `json:"graph_id"`
	UserID           string         `json:"user_id"`
	Name             string         `json:"topology_name"`
	Version          int            `json:"version"`
	VLANCount        int            `json:"vlan_count"`
	Request          PlanRequest    `json:"request"`
	AccessGraph      *Graph         `json:"access_graph"`
	HierarchyGraph   *Graph         `json:"top_graph"`
	AccessConfigs    []DeviceConfig `json:"access_configuration"`
	HierarchyConfigs []DeviceConfig `json:"top_layer_configurations"`
	CreatedAt        time.Time      `json:"created_at"`
}

// DefaultName is used when a topology is saved without a name
const DefaultName = "Untitled Topology"

// Repository persists plan records
type Repository interface {
	Save(ctx context.Context, record *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// ListByUser returns the user's records, newest first
	ListByUser(ctx context.Context, userID string) ([]*Record, error)
	// LatestVersion returns 0 when no record with that name exists
	LatestVersion(ctx context.Context, userID, name string) (int, error)
}

// Locker serializes work on a key. The returned func releases the lock.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(context.Context) error, error)
}

// Provisioner pushes one device configuration to a reachable device
type Provisioner interface {
	Push(ctx context.Context, endpoint string, cfg DeviceConfig) error
}
