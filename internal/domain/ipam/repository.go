package ipam

import "context"

// Prefix is a CIDR block tracked by the address ledger
type Prefix struct {
	CIDR        string `json:"cidr"`
	ParentCIDR  string `json:"parent_cidr,omitempty"`
	UsableHosts int    `json:"usable_hosts"`
}

// Repository records prefixes and refuses overlapping children.
type Repository interface {
	EnsureRootPrefix(ctx context.Context, cidr string) (*Prefix, error)
	AcquireSpecificChildPrefix(ctx context.Context, parentCIDR string, cidr string) (*Prefix, error)
	ReleaseChildPrefix(ctx context.Context, cidr string) error
	DeletePrefix(ctx context.Context, cidr string) error
	ListChildPrefixes(ctx context.Context, parentCIDR string) ([]*Prefix, error)
}
