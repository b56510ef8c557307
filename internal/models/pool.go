package models

import (
	"time"
)

// HardwarePool is a shared inventory of identical hardware units. The
// pool only counts units; it does not track which user holds which unit.
// Invariant: 0 <= CheckedOut <= Capacity, enforced by the store at
// commit time.
type HardwarePool struct {
	Name       string    `json:"name"`
	Capacity   int       `json:"capacity"`
	CheckedOut int       `json:"checked_out"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewHardwarePool creates a pool with no units checked out.
func NewHardwarePool(name string, capacity int) *HardwarePool {
	now := time.Now()
	return &HardwarePool{
		Name:      name,
		Capacity:  capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Available returns the number of units that can still be checked out.
func (p *HardwarePool) Available() int {
	return p.Capacity - p.CheckedOut
}
