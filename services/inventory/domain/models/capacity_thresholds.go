package models

import (
	"fmt"
	"math"

	"github.com/ghuser/mrpcapacity/pkg/domainerr"
	"github.com/ghuser/mrpcapacity/services/inventory/domain"
)

// CapacityThresholds is the configured range a product's maximum production
// capacity must fall in at creation time. Both bounds are inclusive.
type CapacityThresholds struct {
	Min int
	Max int
}

// MaxCapacityLimit is the largest capacity the INTEGER columns can store.
const MaxCapacityLimit = math.MaxInt32

// Validate rejects an empty or non-positive range, and a max the database
// cannot store.
func (c CapacityThresholds) Validate() error {
	if c.Min < 1 {
		return fmt.Errorf("min capacity threshold must be at least 1 (got %d)", c.Min)
	}
	if c.Max < c.Min {
		return fmt.Errorf("max capacity threshold %d is below min capacity threshold %d", c.Max, c.Min)
	}
	if c.Max > MaxCapacityLimit {
		return fmt.Errorf("max capacity threshold must be at most %d (got %d)", MaxCapacityLimit, c.Max)
	}
	return nil
}

// Contains reports whether capacity is within the thresholds.
func (c CapacityThresholds) Contains(capacity int) bool {
	return capacity >= c.Min && capacity <= c.Max
}

// ErrorMessage is the message reported for an out-of-range capacity.
func (c CapacityThresholds) ErrorMessage() string {
	return fmt.Sprintf("max production capacity must be between %d and %d", c.Min, c.Max)
}

func (c CapacityThresholds) check(capacity int) error {
	if !c.Contains(capacity) {
		return domainerr.Violation(domain.ErrInvalidCapacity, "%s", c.ErrorMessage())
	}
	return nil
}
