package memory

import (
	"context"
	"fmt"
	"net/netip"

	"topoplan/internal/domain/ipam"

	goipam "github.com/metal-stack/go-ipam"
)

// IPAMRepository is an in-memory implementation of ipam.Repository backed by go-ipam.
type IPAMRepository struct {
	engine goipam.Ipamer
}

// NewIPAMRepository creates a new in-memory IPAM repository.
func NewIPAMRepository(ctx context.Context) *IPAMRepository {
	return &IPAMRepository{engine: goipam.New(ctx)}
}

// NewIPAMLedger matches the factory signature of the address ledger
func NewIPAMLedger(ctx context.Context) ipam.Repository {
	return NewIPAMRepository(ctx)
}

// EnsureRootPrefix ensures a root prefix exists (creates if missing).
func (r *IPAMRepository) EnsureRootPrefix(ctx context.Context, cidr string) (*ipam.Prefix, error) {
	p, err := r.engine.PrefixFrom(ctx, cidr)
	if err != nil {
		p, err = r.engine.NewPrefix(ctx, cidr)
		if err != nil {
			return nil, fmt.Errorf("ensure root prefix: %w", err)
		}
	}
	return toPrefix(p, ""), nil
}

func (r *IPAMRepository) AcquireSpecificChildPrefix(ctx context.Context, parentCIDR string, cidr string) (*ipam.Prefix, error) {
	child, err := r.engine.AcquireSpecificChildPrefix(ctx, parentCIDR, cidr)
	if err != nil {
		return nil, err
	}
	return toPrefix(child, parentCIDR), nil
}

func (r *IPAMRepository) ReleaseChildPrefix(ctx context.Context, cidr string) error {
	p, err := r.engine.PrefixFrom(ctx, cidr)
	if err != nil {
		return err
	}
	return r.engine.ReleaseChildPrefix(ctx, p)
}

func (r *IPAMRepository) DeletePrefix(ctx context.Context, cidr string) error {
	_, err := r.engine.DeletePrefix(ctx, cidr)
	return err
}

// ListChildPrefixes returns every prefix strictly inside parentCIDR
func (r *IPAMRepository) ListChildPrefixes(ctx context.Context, parentCIDR string) ([]*ipam.Prefix, error) {
	parent, err := r.engine.PrefixFrom(ctx, parentCIDR)
	if err != nil {
		return nil, fmt.Errorf("parent prefix not found: %w", err)
	}
	parentNet, err := netip.ParsePrefix(parent.Cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid parent cidr %s: %w", parent.Cidr, err)
	}
	all, err := r.engine.ReadAllPrefixCidrs(ctx)
	if err != nil {
		return nil, fmt.Errorf("read all prefixes failed: %w", err)
	}
	out := make([]*ipam.Prefix, 0, len(all))
	for _, cidr := range all {
		childNet, err := netip.ParsePrefix(cidr)
		if err != nil || childNet == parentNet {
			continue
		}
		if parentNet.Contains(childNet.Addr()) && childNet.Bits() > parentNet.Bits() {
			cp, err := r.engine.PrefixFrom(ctx, cidr)
			if err != nil {
				continue
			}
			out = append(out, toPrefix(cp, parentCIDR))
		}
	}
	return out, nil
}

func toPrefix(p *goipam.Prefix, parentCIDR string) *ipam.Prefix {
	usage := p.Usage()
	return &ipam.Prefix{CIDR: p.Cidr, ParentCIDR: parentCIDR, UsableHosts: int(usage.AvailableIPs)} // #nosec G115 - AvailableIPs fits in int
}

// Interface compliance assertion
var _ ipam.Repository = (*IPAMRepository)(nil)
