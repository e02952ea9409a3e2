package postgres

import (
	"context"
	"fmt"
	"hash/fnv"

	"topoplan/internal/domain/topology"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LockManager provides cross-replica locks using PostgreSQL advisory locks.
// Session-level advisory locks belong to one connection, so each acquisition
// pins a pooled connection until released.
type LockManager struct {
	pool *pgxpool.Pool
}

func NewLockManager(pool *pgxpool.Pool) *LockManager { return &LockManager{pool: pool} }

// hashKey converts a string key to the int64 space of advisory locks
func hashKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64()) // #nosec G115 - wraparound is fine for a lock id
}

// Acquire obtains an exclusive advisory lock. Blocks until acquired or ctx is done.
func (l *LockManager) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection for lock %s: %w", key, err)
	}
	k := hashKey(key)
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", k); err != nil {
		conn.Release()
		return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
	}
	return func(c context.Context) error {
		defer conn.Release()
		if _, err := conn.Exec(c, "SELECT pg_advisory_unlock($1)", k); err != nil {
			return fmt.Errorf("failed to release lock %s: %w", key, err)
		}
		return nil
	}, nil
}

var _ topology.Locker = (*LockManager)(nil)
