package memory

import (
	"context"
	"sort"
	"sync"

	"topoplan/internal/domain/topology"
)

// TopologyRepository is an in-memory implementation of topology.Repository
type TopologyRepository struct {
	mu      sync.RWMutex
	records map[string]*topology.Record // recordID -> Record
	byUser  map[string][]string         // userID -> recordIDs in insertion order
}

// NewTopologyRepository creates a new in-memory topology repository
func NewTopologyRepository() *TopologyRepository {
	return &TopologyRepository{
		records: make(map[string]*topology.Record),
		byUser:  make(map[string][]string),
	}
}

// Save stores a new record
func (r *TopologyRepository) Save(ctx context.Context, record *topology.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *record
	r.records[record.ID] = &stored
	r.byUser[record.UserID] = append(r.byUser[record.UserID], record.ID)
	return nil
}

// Get retrieves a record by id
func (r *TopologyRepository) Get(ctx context.Context, id string) (*topology.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, topology.ErrTopologyNotFound
	}
	out := *record
	return &out, nil
}

// ListByUser returns the user's records, newest first
func (r *TopologyRepository) ListByUser(ctx context.Context, userID string) ([]*topology.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUser[userID]
	out := make([]*topology.Record, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		record := *r.records[ids[i]]
		out = append(out, &record)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// LatestVersion returns the highest version saved under name, or 0
func (r *TopologyRepository) LatestVersion(ctx context.Context, userID, name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := 0
	for _, id := range r.byUser[userID] {
		if rec := r.records[id]; rec.Name == name && rec.Version > latest {
			latest = rec.Version
		}
	}
	return latest, nil
}

// Interface compliance assertion
var _ topology.Repository = (*TopologyRepository)(nil)
