// Simulation error taxonomy. Errors local to one genus are recovered by
// skipping that genus for the step; pool- and store-level violations are
// fatal to the whole step and leave the pre-step state untouched.
package engine

import "fmt"

// InsufficientResourceError reports a consume request beyond the pool's
// available capacity. The allocator caps grants at capacity, so hitting
// this during a step means an invariant was broken; the step aborts
// without committing.
type InsufficientResourceError struct {
	Requested float64
	Available float64
}

func (e *InsufficientResourceError) Error() string {
	return fmt.Sprintf("insufficient resources: requested %.3f, available %.3f",
		e.Requested, e.Available)
}

// InvalidAttributeError reports a genus whose attributes cannot drive a
// population update (non-positive growth rate or resource need, negative
// population). The genus is held constant for the step and a warning is
// recorded in the report.
type InvalidAttributeError struct {
	Genus  string
	Reason string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("invalid attributes for genus %q: %s", e.Genus, e.Reason)
}
