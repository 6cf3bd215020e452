/*
errors.go - Centralized error types for the reconciliation engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Fetch errors  - A per-employee lookup (profile, assigned concepts)
     failed. Recovered at the per-employee boundary: counted, skipped.
  2. Update errors - The full-replacement write failed. Same recovery.
  3. Batch-fatal errors - The shared inputs of a run (employee list,
     concept catalog) could not be obtained. Aborts the whole run and
     leaves the checkpoint untouched so the next trigger retries.

  Malformed hire dates are NOT errors: the calculator treats them as
  zero years of service and never propagates anything.

USAGE:
  if errors.Is(err, tenure.ErrBatchFatal) {
      // run aborted, checkpoint must not advance
  }

SEE ALSO:
  - engine.go: Applies the per-employee vs batch-fatal distinction
*/
package tenure

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrFetch is returned when a per-employee lookup failed.
	ErrFetch = errors.New("fetch failed")

	// ErrUpdate is returned when the full-replacement write failed.
	ErrUpdate = errors.New("update failed")

	// ErrBatchFatal is returned when the run's shared inputs could not be
	// obtained. The run aborts without advancing the checkpoint.
	ErrBatchFatal = errors.New("batch input fetch failed")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// FetchError reports which lookup failed for which employee.
type FetchError struct {
	EmployeeID EmployeeID
	What       string // "profile", "assigned concepts"
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s for %s: %v", e.What, e.EmployeeID, e.Err)
}

func (e *FetchError) Unwrap() error { return ErrFetch }

// UpdateError reports a failed replacement write for one employee.
type UpdateError struct {
	EmployeeID EmployeeID
	Err        error
}

func (e *UpdateError) Error() string {
	return fmt.Sprintf("update %s: %v", e.EmployeeID, e.Err)
}

func (e *UpdateError) Unwrap() error { return ErrUpdate }

// BatchFatalError reports a failed shared-input fetch.
type BatchFatalError struct {
	What string // "employee list", "concept catalog"
	Err  error
}

func (e *BatchFatalError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.What, e.Err)
}

func (e *BatchFatalError) Unwrap() error { return ErrBatchFatal }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsPerEmployee returns true if the error is isolated to one employee and
// must not abort the batch.
func IsPerEmployee(err error) bool {
	return errors.Is(err, ErrFetch) || errors.Is(err, ErrUpdate)
}
