// Package ledger maintains the hardware pools and mediates every
// capacity-affecting mutation. Check-out and check-in are guarded updates:
// the capacity precondition is checked and applied as one atomic step
// against the store, never as a read-then-write in application memory.
package ledger

import (
	"context"

	"github.com/good-yellow-bee/hwportal/internal/metrics"
	"github.com/good-yellow-bee/hwportal/internal/models"
	"github.com/good-yellow-bee/hwportal/internal/storage"
)

// Ledger is the inventory accounting component. It owns pool mutation;
// no other component writes to the pools.
type Ledger struct {
	pools storage.PoolRepository
}

// New creates a Ledger over the given pool repository.
func New(pools storage.PoolRepository) *Ledger {
	return &Ledger{pools: pools}
}

// List returns all pools in their latest committed state.
func (l *Ledger) List(ctx context.Context) ([]*models.HardwarePool, error) {
	pools, err := l.pools.List(ctx)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	for _, p := range pools {
		metrics.PoolAvailableUnits.WithLabelValues(p.Name).Set(float64(p.Available()))
	}
	return pools, nil
}

// Get returns the named pool in its latest committed state.
func (l *Ledger) Get(ctx context.Context, name string) (*models.HardwarePool, error) {
	pool, err := l.pools.GetByName(ctx, name)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if pool == nil {
		return nil, &NotFoundError{Pool: name}
	}
	metrics.PoolAvailableUnits.WithLabelValues(pool.Name).Set(float64(pool.Available()))
	return pool, nil
}

// CheckOut removes quantity units from the named pool on behalf of a user.
// Returns the updated pool snapshot, or a typed failure:
// InvalidQuantityError, NotFoundError, InsufficientCapacityError, or
// StoreError. On any failure the pool is unchanged.
func (l *Ledger) CheckOut(ctx context.Context, name, userID string, quantity int) (*models.HardwarePool, error) {
	if quantity <= 0 {
		metrics.CheckoutsTotal.WithLabelValues(name, metrics.OutcomeInvalid).Inc()
		return nil, &InvalidQuantityError{Quantity: quantity}
	}

	applied, err := l.pools.CheckoutUnits(ctx, name, userID, quantity)
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	pool, err := l.pools.GetByName(ctx, name)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if pool == nil {
		metrics.CheckoutsTotal.WithLabelValues(name, metrics.OutcomeNotFound).Inc()
		return nil, &NotFoundError{Pool: name}
	}

	metrics.PoolAvailableUnits.WithLabelValues(pool.Name).Set(float64(pool.Available()))

	if !applied {
		metrics.CheckoutsTotal.WithLabelValues(name, metrics.OutcomeDenied).Inc()
		return nil, &InsufficientCapacityError{
			Pool:      name,
			Requested: quantity,
			Available: pool.Available(),
		}
	}

	metrics.CheckoutsTotal.WithLabelValues(name, metrics.OutcomeGranted).Inc()
	return pool, nil
}

// CheckIn returns quantity units to the named pool on behalf of a user.
// Returns the updated pool snapshot, or a typed failure:
// InvalidQuantityError, NotFoundError, OverReturnError, or StoreError.
// On any failure the pool is unchanged.
func (l *Ledger) CheckIn(ctx context.Context, name, userID string, quantity int) (*models.HardwarePool, error) {
	if quantity <= 0 {
		metrics.CheckinsTotal.WithLabelValues(name, metrics.OutcomeInvalid).Inc()
		return nil, &InvalidQuantityError{Quantity: quantity}
	}

	applied, err := l.pools.CheckinUnits(ctx, name, userID, quantity)
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	pool, err := l.pools.GetByName(ctx, name)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	if pool == nil {
		metrics.CheckinsTotal.WithLabelValues(name, metrics.OutcomeNotFound).Inc()
		return nil, &NotFoundError{Pool: name}
	}

	metrics.PoolAvailableUnits.WithLabelValues(pool.Name).Set(float64(pool.Available()))

	if !applied {
		metrics.CheckinsTotal.WithLabelValues(name, metrics.OutcomeDenied).Inc()
		return nil, &OverReturnError{
			Pool:       name,
			Requested:  quantity,
			CheckedOut: pool.CheckedOut,
		}
	}

	metrics.CheckinsTotal.WithLabelValues(name, metrics.OutcomeGranted).Inc()
	return pool, nil
}
