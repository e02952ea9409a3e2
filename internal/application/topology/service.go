package topology

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"topoplan/internal/domain/topology"
	"topoplan/internal/infrastructure/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Ledger cross-checks the subnets of a plan against each other
type Ledger interface {
	Verify(ctx context.Context, access, links []topology.Subnet) error
}

// Observer is told about every planning run
type Observer interface {
	ObservePlan(mode string, elapsed time.Duration, err error)
}

// Options tune the service defaults
type Options struct {
	DefaultIPBase    string
	RoutingThreshold int
	Observer         Observer
}

// Service plans, stores and provisions topologies on behalf of users
type Service struct {
	repo        topology.Repository
	locker      topology.Locker
	ledger      Ledger
	provisioner topology.Provisioner
	opts        Options
}

// NewService wires the service. ledger and provisioner may be nil.
func NewService(repo topology.Repository, locker topology.Locker, ledger Ledger, provisioner topology.Provisioner, opts Options) *Service {
	if opts.DefaultIPBase == "" {
		opts.DefaultIPBase = "192.168.0.0"
	}
	return &Service{repo: repo, locker: locker, ledger: ledger, provisioner: provisioner, opts: opts}
}

// DefaultRequest returns the request used when a client omits fields
func (s *Service) DefaultRequest() topology.PlanRequest {
	return topology.PlanRequest{
		Routers:            2,
		MultilayerSwitches: 2,
		Switches:           4,
		Computers:          15,
		Mode:               topology.ModeScalable,
		IPBase:             s.opts.DefaultIPBase,
		VLANCount:          topology.AutoVLANCount,
		RoutingThreshold:   s.opts.RoutingThreshold,
	}
}

// Preview plans a topology and verifies its addressing without storing it
func (s *Service) Preview(ctx context.Context, req topology.PlanRequest) (*topology.Plan, error) {
	if strings.TrimSpace(req.IPBase) == "" {
		req.IPBase = s.opts.DefaultIPBase
	}
	if req.RoutingThreshold == 0 {
		req.RoutingThreshold = s.opts.RoutingThreshold
	}

	start := time.Now()
	plan, err := PlanTopology(req)
	if err == nil && s.ledger != nil {
		if verr := s.ledger.Verify(ctx, plan.AccessSubnets(), plan.LinkSubnets); verr != nil {
			plan, err = nil, fmt.Errorf("verifying address plan: %w", verr)
		}
	}
	if s.opts.Observer != nil {
		s.opts.Observer.ObservePlan(req.Mode.String(), time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("mode", req.Mode.String()).
		Int("vlans", len(plan.VLANs)).
		Int("links", len(plan.LinkSubnets)).
		Msg("topology planned")
	return plan, nil
}

// Create plans a topology and stores it as the next version of name
func (s *Service) Create(ctx context.Context, userID, name string, req topology.PlanRequest) (*topology.Record, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = topology.DefaultName
	}
	if err := validation.ValidateTopologyName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", topology.ErrInvalidInput, err)
	}

	plan, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "topology:"+userID+":"+name)
	if err != nil {
		return nil, fmt.Errorf("failed to lock topology %s: %w", name, err)
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			log.Warn().Err(rerr).Str("topology", name).Msg("failed to release topology lock")
		}
	}()

	latest, err := s.repo.LatestVersion(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read latest version: %w", err)
	}

	record := &topology.Record{
		ID:               uuid.New().String(),
		UserID:           userID,
		Name:             name,
		Version:          latest + 1,
		VLANCount:        len(plan.VLANs),
		Request:          plan.Request,
		AccessGraph:      plan.AccessGraph,
		HierarchyGraph:   plan.HierarchyGraph,
		AccessConfigs:    plan.AccessConfigs,
		HierarchyConfigs: plan.HierarchyConfigs,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.repo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save topology: %w", err)
	}

	log.Info().
		Str("topology_id", record.ID).
		Str("user_id", userID).
		Str("name", name).
		Int("version", record.Version).
		Msg("topology saved")
	return record, nil
}

// List returns the user's topologies, newest first
func (s *Service) List(ctx context.Context, userID string) ([]*topology.Record, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns a topology visible to the caller. Administrators see every topology.
func (s *Service) Get(ctx context.Context, id, userID string, admin bool) (*topology.Record, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID && !admin {
		return nil, topology.ErrForbidden
	}
	return record, nil
}

// Provision pushes the stored configuration of one device to endpoint.
// The record is never modified.
func (s *Service) Provision(ctx context.Context, id, userID string, admin bool, device, endpoint string) (*topology.DeviceConfig, error) {
	if s.provisioner == nil {
		return nil, topology.ErrProvisioningDisabled
	}
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("%w: endpoint is required", topology.ErrInvalidInput)
	}
	record, err := s.Get(ctx, id, userID, admin)
	if err != nil {
		return nil, err
	}
	cfg, ok := topology.FindConfig(device, record.AccessConfigs, record.HierarchyConfigs)
	if !ok {
		return nil, fmt.Errorf("%w: %s", topology.ErrDeviceNotInTopology, device)
	}

	if err := s.provisioner.Push(ctx, endpoint, cfg); err != nil {
		log.Error().Err(err).Str("topology_id", id).Str("device", device).Str("endpoint", endpoint).Msg("provisioning failed")
		if errors.Is(err, topology.ErrProvisioningFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", topology.ErrProvisioningFailed, err)
	}

	log.Info().Str("topology_id", id).Str("device", device).Str("endpoint", endpoint).Int("lines", len(cfg.Lines)).Msg("device provisioned")
	return &cfg, nil
}
