package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"topoplan/internal/domain/topology"
)

// TopologyRepository is a Postgres implementation of topology.Repository.
// Graphs, configurations and the request are stored as JSONB documents.
type TopologyRepository struct {
	db *sql.DB
}

// NewTopologyRepository constructs a TopologyRepository
func NewTopologyRepository(db *sql.DB) *TopologyRepository { return &TopologyRepository{db: db} }

const topologyColumns = `id,user_id,name,version,vlan_count,request,access_graph,top_graph,access_configuration,top_layer_configurations,created_at`

func (r *TopologyRepository) Save(ctx context.Context, rec *topology.Record) error {
	docs := []interface{}{rec.Request, rec.AccessGraph, rec.HierarchyGraph, rec.AccessConfigs, rec.HierarchyConfigs}
	encoded := make([][]byte, len(docs))
	for i, d := range docs {
		b, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode topology %s: %w", rec.ID, err)
		}
		encoded[i] = b
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO topologies (`+topologyColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		rec.ID, rec.UserID, rec.Name, rec.Version, rec.VLANCount,
		encoded[0], encoded[1], encoded[2], encoded[3], encoded[4], rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert topology: %w", err)
	}
	return nil
}

// scanTopology scans a topologies row and decodes its documents
func scanTopology(row scanner) (*topology.Record, error) {
	var rec topology.Record
	var request, accessGraph, topGraph, accessCfg, topCfg []byte
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Name, &rec.Version, &rec.VLANCount,
		&request, &accessGraph, &topGraph, &accessCfg, &topCfg, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	targets := []struct {
		raw []byte
		dst interface{}
	}{
		{request, &rec.Request},
		{accessGraph, &rec.AccessGraph},
		{topGraph, &rec.HierarchyGraph},
		{accessCfg, &rec.AccessConfigs},
		{topCfg, &rec.HierarchyConfigs},
	}
	for _, t := range targets {
		if len(t.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(t.raw, t.dst); err != nil {
			return nil, fmt.Errorf("decode topology %s: %w", rec.ID, err)
		}
	}
	return &rec, nil
}

func (r *TopologyRepository) Get(ctx context.Context, id string) (*topology.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+topologyColumns+` FROM topologies WHERE id=$1`, id)
	rec, err := scanTopology(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, topology.ErrTopologyNotFound
		}
		return nil, fmt.Errorf("get topology: %w", err)
	}
	return rec, nil
}

func (r *TopologyRepository) ListByUser(ctx context.Context, userID string) ([]*topology.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+topologyColumns+` FROM topologies WHERE user_id=$1 ORDER BY created_at DESC, version DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list topologies: %w", err)
	}
	defer rows.Close()
	out := make([]*topology.Record, 0)
	for rows.Next() {
		rec, err := scanTopology(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *TopologyRepository) LatestVersion(ctx context.Context, userID, name string) (int, error) {
	var latest int
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version),0) FROM topologies WHERE user_id=$1 AND name=$2`, userID, name).Scan(&latest)
	if err != nil {
		return 0, fmt.Errorf("latest version: %w", err)
	}
	return latest, nil
}

var _ topology.Repository = (*TopologyRepository)(nil)
