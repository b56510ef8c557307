package models

import (
	"time"
)

// EventAction identifies the direction of a hardware movement.
type EventAction string

const (
	ActionCheckout EventAction = "checkout"
	ActionCheckin  EventAction = "checkin"
)

// CheckoutEvent records one committed hardware movement against a pool.
// Events are append-only and written in the same transaction as the pool
// mutation, so the event log never disagrees with the counters.
type CheckoutEvent struct {
	ID        string      `json:"id"`
	PoolName  string      `json:"pool_name"`
	UserID    string      `json:"user_id"`
	Action    EventAction `json:"action"`
	Quantity  int         `json:"quantity"`
	CreatedAt time.Time   `json:"created_at"`
}
