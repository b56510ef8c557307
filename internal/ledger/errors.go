package ledger

import "fmt"

// NotFoundError indicates the named pool does not exist.
type NotFoundError struct {
	Pool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("pool not found: %s", e.Pool)
}

// InvalidQuantityError indicates a non-positive quantity.
type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be a positive integer, got %d", e.Quantity)
}

// InsufficientCapacityError indicates the pool did not have enough free
// units when the mutation was committed. Available is the committed value
// observed after the guard lost, so callers can adjust and retry.
type InsufficientCapacityError struct {
	Pool      string
	Requested int
	Available int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("pool %s: requested %d units, only %d available", e.Pool, e.Requested, e.Available)
}

// OverReturnError indicates a check-in larger than the pool's checked-out
// count at commit time.
type OverReturnError struct {
	Pool       string
	Requested  int
	CheckedOut int
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("pool %s: cannot return %d units, only %d checked out", e.Pool, e.Requested, e.CheckedOut)
}

// StoreError wraps a persistence failure. It is never a business-rule
// rejection; callers should surface it as the store being unavailable.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
