package ipam

import (
	"context"
	"fmt"

	"topoplan/internal/domain/ipam"
	"topoplan/internal/domain/topology"
	"topoplan/pkg/vlsm"

	"github.com/rs/zerolog/log"
)

// RepositoryFactory opens an empty ledger
type RepositoryFactory func(ctx context.Context) ipam.Repository

// Service checks address plans against an IPAM ledger. Each verification runs
// on a fresh ledger so concurrent plans never see each other's prefixes.
type Service struct {
	newRepo RepositoryFactory
}

// NewService constructs an IPAM service using the provided ledger factory.
func NewService(newRepo RepositoryFactory) *Service { return &Service{newRepo: newRepo} }

// Verify registers every access and link subnet under their common supernet.
// Any subnet the ledger refuses overlaps one registered before it.
func (s *Service) Verify(ctx context.Context, access, links []topology.Subnet) error {
	all := make([]topology.Subnet, 0, len(access)+len(links))
	all = append(all, access...)
	all = append(all, links...)
	if len(all) == 0 {
		return nil
	}

	root, err := vlsm.Supernet(all)
	if err != nil {
		return err
	}
	repo := s.newRepo(ctx)
	if _, err := repo.EnsureRootPrefix(ctx, root.CIDR()); err != nil {
		return fmt.Errorf("failed to register root prefix %s: %w", root.CIDR(), err)
	}

	acquired := make([]string, 0, len(all))
	defer func() { s.release(context.WithoutCancel(ctx), repo, root.CIDR(), acquired) }()

	for _, sn := range all {
		if _, err := repo.AcquireSpecificChildPrefix(ctx, root.CIDR(), sn.CIDR()); err != nil {
			return fmt.Errorf("%w: %s: %v", topology.ErrSubnetOverlap, sn.CIDR(), err)
		}
		acquired = append(acquired, sn.CIDR())
	}

	children, err := repo.ListChildPrefixes(ctx, root.CIDR())
	if err != nil {
		return fmt.Errorf("failed to list ledger prefixes: %w", err)
	}
	if len(children) != len(all) {
		return fmt.Errorf("%w: ledger holds %d of %d subnets", topology.ErrSubnetOverlap, len(children), len(all))
	}

	log.Debug().Str("root", root.CIDR()).Int("subnets", len(all)).Msg("address plan verified")
	return nil
}

// release empties the ledger again
func (s *Service) release(ctx context.Context, repo ipam.Repository, root string, children []string) {
	for _, cidr := range children {
		if err := repo.ReleaseChildPrefix(ctx, cidr); err != nil {
			log.Debug().Err(err).Str("cidr", cidr).Msg("failed to release ledger prefix")
		}
	}
	if err := repo.DeletePrefix(ctx, root); err != nil {
		log.Debug().Err(err).Str("cidr", root).Msg("failed to delete ledger root")
	}
}
