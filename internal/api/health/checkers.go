package health

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteChecker checks SQLite database connectivity.
type SQLiteChecker struct {
	db *sql.DB
}

// NewSQLiteChecker creates a new SQLite health checker.
func NewSQLiteChecker(db *sql.DB) *SQLiteChecker {
	return &SQLiteChecker{db: db}
}

// Name returns the checker name.
func (c *SQLiteChecker) Name() string {
	return "sqlite"
}

// Check verifies the SQLite database is accessible.
func (c *SQLiteChecker) Check(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return c.db.PingContext(ctx)
}

// PoolCounter reports how many hardware pools exist.
type PoolCounter interface {
	Count(ctx context.Context) (int64, error)
}

// PoolsChecker verifies the hardware pools were seeded.
type PoolsChecker struct {
	pools PoolCounter
}

// NewPoolsChecker creates a checker over the pool repository.
func NewPoolsChecker(pools PoolCounter) *PoolsChecker {
	return &PoolsChecker{pools: pools}
}

// Name returns the checker name.
func (c *PoolsChecker) Name() string {
	return "pools"
}

// Check verifies at least one hardware pool exists.
func (c *PoolsChecker) Check(ctx context.Context) error {
	if c.pools == nil {
		return fmt.Errorf("pool repository not initialized")
	}
	n, err := c.pools.Count(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no hardware pools seeded")
	}
	return nil
}
