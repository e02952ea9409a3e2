package ipam

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"topoplan/internal/domain/ipam"
	"topoplan/internal/domain/topology"
)

// mockIPAMRepository implements ipam.Repository for testing
type mockIPAMRepository struct {
	prefixes map[string]*ipam.Prefix
	released []string
	deleted  []string
}

func newMockIPAMRepository() *mockIPAMRepository {
	return &mockIPAMRepository{prefixes: make(map[string]*ipam.Prefix)}
}

func (m *mockIPAMRepository) EnsureRootPrefix(ctx context.Context, cidr string) (*ipam.Prefix, error) {
	if prefix, exists := m.prefixes[cidr]; exists {
		return prefix, nil
	}
	prefix := &ipam.Prefix{CIDR: cidr}
	m.prefixes[cidr] = prefix
	return prefix, nil
}

func (m *mockIPAMRepository) AcquireSpecificChildPrefix(ctx context.Context, parentCIDR string, cidr string) (*ipam.Prefix, error) {
	want := netip.MustParsePrefix(cidr)
	for existing, p := range m.prefixes {
		if p.ParentCIDR != parentCIDR {
			continue
		}
		if netip.MustParsePrefix(existing).Overlaps(want) {
			return nil, errors.New("prefix not available")
		}
	}
	prefix := &ipam.Prefix{CIDR: cidr, ParentCIDR: parentCIDR}
	m.prefixes[cidr] = prefix
	return prefix, nil
}

func (m *mockIPAMRepository) ReleaseChildPrefix(ctx context.Context, cidr string) error {
	m.released = append(m.released, cidr)
	delete(m.prefixes, cidr)
	return nil
}

func (m *mockIPAMRepository) DeletePrefix(ctx context.Context, cidr string) error {
	m.deleted = append(m.deleted, cidr)
	delete(m.prefixes, cidr)
	return nil
}

func (m *mockIPAMRepository) ListChildPrefixes(ctx context.Context, parentCIDR string) ([]*ipam.Prefix, error) {
	var out []*ipam.Prefix
	for _, p := range m.prefixes {
		if p.ParentCIDR == parentCIDR {
			out = append(out, p)
		}
	}
	return out, nil
}

func subnet(t *testing.T, cidr string) topology.Subnet {
	t.Helper()
	p := netip.MustParsePrefix(cidr)
	base, err := topology.ParseIP(p.Addr().String())
	if err != nil {
		t.Fatalf("ParseIP failed: %v", err)
	}
	return topology.Subnet{Base: base, Prefix: p.Bits()}
}

func TestService_Verify(t *testing.T) {
	repo := newMockIPAMRepository()
	svc := NewService(func(ctx context.Context) ipam.Repository { return repo })

	access := []topology.Subnet{subnet(t, "192.168.0.0/28"), subnet(t, "192.168.0.16/28")}
	links := []topology.Subnet{subnet(t, "192.168.0.32/28")}

	if err := svc.Verify(context.Background(), access, links); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if len(repo.released) != 3 {
		t.Errorf("Expected 3 released prefixes, got %d", len(repo.released))
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "192.168.0.0/26" {
		t.Errorf("Expected the supernet root to be deleted, got %v", repo.deleted)
	}
	if len(repo.prefixes) != 0 {
		t.Errorf("Expected an empty ledger afterwards, got %d prefixes", len(repo.prefixes))
	}
}

func TestService_VerifyOverlap(t *testing.T) {
	svc := NewService(func(ctx context.Context) ipam.Repository { return newMockIPAMRepository() })

	access := []topology.Subnet{subnet(t, "10.0.0.0/27")}
	links := []topology.Subnet{subnet(t, "10.0.0.16/28")}

	err := svc.Verify(context.Background(), access, links)
	if !errors.Is(err, topology.ErrSubnetOverlap) {
		t.Errorf("Expected ErrSubnetOverlap, got %v", err)
	}
}

func TestService_VerifyEmpty(t *testing.T) {
	called := false
	svc := NewService(func(ctx context.Context) ipam.Repository {
		called = true
		return newMockIPAMRepository()
	})
	if err := svc.Verify(context.Background(), nil, nil); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
	if called {
		t.Error("Expected no ledger for an empty plan")
	}
}
