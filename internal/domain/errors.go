package domain

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by the services and the API layer. Every
// mutation failure leaves the store unchanged (transaction rollback), so
// none of these ever describe a partial write.
var (
	// ErrUnauthorized: the actor lacks the role or ownership for the
	// operation. Never retried.
	ErrUnauthorized = errors.New("actor is not authorized for this operation")

	// ErrStructuralMismatch: a parent/child reference crosses program
	// trees, i.e. the caller holds a stale reference.
	ErrStructuralMismatch = errors.New("referenced node does not belong to this program")
)

// CapacityError is returned when adding or duplicating a node would
// exceed the parent's capacity. Current and Limit are surfaced so the
// caller can correct its input.
type CapacityError struct {
	Node    string // "weeks" or "days"
	Current int
	Limit   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: %d of %d %s in use", e.Current, e.Limit, e.Node)
}

// BelowCountError is returned when a capacity would be lowered under the
// number of children already present. Decreases are rejected, not clamped.
type BelowCountError struct {
	Requested int
	Current   int
}

func (e *BelowCountError) Error() string {
	return fmt.Sprintf("total weeks %d is below the current week count %d", e.Requested, e.Current)
}
