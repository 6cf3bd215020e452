/*
Package tenure provides the tenure benefit reconciliation engine.

PURPOSE:
  This package keeps each employee's tenure-dependent payroll benefits
  consistent with their actual length of service. Tenure is always
  recomputed from the hire date; it is never persisted. Two concepts are
  owned here:
  - The fixed tenure bonus: quantity equals whole years of service,
    corrected every run, never removed once assigned.
  - The tiered tenure supplement: one of a small set of mutually-exclusive
    bands keyed by tenure range and gender; at most one per employee.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: directory record (read-only to this package)
  - ConceptCatalogEntry: payroll concept catalog record (read-only)
  - AssignedConceptRecord: the mutable state the engine reconciles
  - Decision: derived entitlement, recomputed every run
  - Plan: the full desired replacement set for one employee

DESIGN PRINCIPLES:
  1. Tenure is derived, never stored
  2. Precision: decimal.Decimal for payroll quantities
  3. External state is owned by collaborators; this package only plans
     and applies full-replacement updates
  4. Every run is idempotent: replaying it yields no further writes

SEE ALSO:
  - calculator.go: completed years of service
  - resolver.go: tenure + gender -> entitlement decision
  - planner.go: minimal change plan against current assignments
  - engine.go: per-employee and batch orchestration
*/
package tenure

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeID is the payroll file number ("legajo"). It is the natural unit
// of mutual exclusion: no employee is mutated by more than one in-flight
// operation at a time.
type EmployeeID string

// ConceptID identifies a concept catalog entry.
type ConceptID string

// AssignmentID identifies one assigned-concept record. Empty means the
// record has not been created yet (the update collaborator assigns one).
type AssignmentID string

// =============================================================================
// EMPLOYEE - Directory record, read-only to this subsystem
// =============================================================================

type Employee struct {
	ID      EmployeeID
	Name    string
	Surname string

	// HireDate is the raw directory value, "2006-01-02". It may be empty
	// or malformed; the calculator treats that as zero years of service.
	HireDate string

	// Gender is the raw directory code ("M", "Femenino", ...). Normalized
	// once at the resolver boundary, never compared verbatim.
	Gender string

	// Guild is the union affiliation. Only one guild is eligible for
	// tenure benefits; the batch driver filters on it.
	Guild string

	Active bool
}

// =============================================================================
// CONCEPT CATALOG - Read-only, fetched per run
// =============================================================================

// ConceptCategory distinguishes the two concept families this engine owns.
// Anything else in the catalog is passed through untouched.
type ConceptCategory string

const (
	CategoryFixedBonus ConceptCategory = "fixed-tenure-bonus"
	CategorySupplement ConceptCategory = "tiered-tenure-supplement"
)

type ConceptCatalogEntry struct {
	ID       ConceptID
	Name     string
	Category ConceptCategory
}

// =============================================================================
// ASSIGNED CONCEPT - The mutable state the engine reconciles
// =============================================================================

// AssignedConceptRecord is one concept assigned to one employee. Multiple
// records of the same concept type may coexist (area bonuses do); tiered
// supplements are constrained to at most one active record per employee.
type AssignedConceptRecord struct {
	ID          AssignmentID
	ConceptType string
	ConceptID   ConceptID
	Units       decimal.Decimal
}

// =============================================================================
// DECISION - Derived entitlement, never stored
// =============================================================================

// TierKey is an abstract supplement band. The resolver only returns keys;
// mapping a key to a concrete catalog entry is the catalog index's job.
type TierKey string

const (
	TierMale10to24   TierKey = "10-24"
	TierMale25Plus   TierKey = "25+"
	TierFemale10to21 TierKey = "10-21"
	TierFemale22Plus TierKey = "22+"
)

// Decision is the resolver's output for one employee at one point in time.
type Decision struct {
	// HasFixedBonus is false when years < 1: the employee is excluded from
	// fixed-bonus processing entirely, not merely granted zero.
	HasFixedBonus      bool
	FixedBonusQuantity int

	// Tier is the supplement band, or empty when none applies.
	Tier TierKey
}

// =============================================================================
// PLAN - Full desired replacement set for one employee
// =============================================================================

// Plan is the planner's output: the complete replacement list of assigned
// concepts for one employee, because the update collaborator's contract is
// full replacement, not incremental patch.
type Plan struct {
	Records []AssignedConceptRecord

	// Changed is true iff applying Records would alter the employee's
	// current state. When false the engine must not call the updater.
	Changed bool

	// Summary is a human-readable account of what changed, used only for
	// logging.
	Summary string
}

// =============================================================================
// RUN SUMMARY - Aggregate counts reported to the caller
// =============================================================================

type RunSummary struct {
	Updated int
	Errors  int
	Skipped int
}
