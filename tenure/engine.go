/*
engine.go - Per-employee and batch reconciliation orchestration

PURPOSE:
  Drives one reconciliation sweep: fetch shared inputs, then for each
  eligible employee compute tenure, resolve entitlements, plan the
  replacement set and apply it through the update collaborator.

FAILURE ISOLATION:
  No error from one employee's processing may abort the batch. Per-employee
  fetch/update failures increment the error counter and processing moves
  on. Only the shared inputs (employee list, concept catalog) are fatal to
  the run; a fatal run reports BatchFatalError so the scheduler leaves its
  checkpoint untouched and the next trigger retries the full sweep.

ORDERING:
  Employees are processed sequentially, in list order. Employee N+1 is not
  started until N's fetches and (possible) update have settled, so log
  output matches employee order and no employee is mutated by more than one
  in-flight operation.

SEE ALSO:
  - planner.go: plan construction
  - scheduler/: single-flight + monthly-dedupe driver
*/
package tenure

import (
	"context"
	"log"
	"time"
)

// =============================================================================
// COLLABORATORS - Abstract contracts, implemented elsewhere
// =============================================================================

// Directory is the read side: employee and concept-catalog records.
// Owned externally; read-only to this subsystem.
type Directory interface {
	// ListEmployees returns all employees, active and inactive.
	ListEmployees(ctx context.Context) ([]Employee, error)

	// GetEmployee returns one full profile, including gender.
	GetEmployee(ctx context.Context, id EmployeeID) (Employee, error)

	// ListAssignedConcepts returns the current assigned-concept state for
	// one employee.
	ListAssignedConcepts(ctx context.Context, id EmployeeID) ([]AssignedConceptRecord, error)

	// ListConceptCatalog returns the shared catalog, fetched once per run.
	ListConceptCatalog(ctx context.Context) ([]ConceptCatalogEntry, error)
}

// Updater is the write side. Full-replacement semantics: the assigned
// concepts in the payload entirely replace the employee's current set;
// omission of a record deletes it.
type Updater interface {
	UpdateEmployee(ctx context.Context, id EmployeeID, payload EmployeeUpdate) error
}

// EmployeeUpdate is the full payload sent to the updater. Identity fields
// travel unchanged; only the assigned concepts are replaced.
type EmployeeUpdate struct {
	Employee         Employee
	AssignedConcepts []AssignedConceptRecord
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine reconciles tenure benefits for the employees of one eligible
// guild against the concept catalog.
type Engine struct {
	Directory Directory
	Updater   Updater

	// Guild is the union affiliation eligible for tenure benefits.
	// Compared normalization-insensitively.
	Guild string

	// TierMatchers maps catalog supplement names to tier keys. Defaults to
	// DefaultTierMatchers.
	TierMatchers []TierMatcher

	// Now is injected for deterministic tenure math in tests.
	Now func() time.Time
}

// NewEngine creates an engine with default matchers and clock.
func NewEngine(dir Directory, upd Updater, guild string) *Engine {
	return &Engine{
		Directory:    dir,
		Updater:      upd,
		Guild:        guild,
		TierMatchers: DefaultTierMatchers(),
		Now:          time.Now,
	}
}

// Eligible is the batch pre-filter: active employees of the eligible guild.
func (e *Engine) Eligible(emp Employee) bool {
	return emp.Active && Normalize(emp.Guild) == Normalize(e.Guild)
}

// ReconcileOne reconciles a single employee against an already-built
// catalog index. Returns true when a replacement write was issued.
//
// The caller may cache the catalog index across the batch; this method
// does not mandate caching, only tolerates it.
func (e *Engine) ReconcileOne(ctx context.Context, emp Employee, idx *CatalogIndex) (bool, error) {
	// Full profile for the gender code; the list endpoint may omit it.
	profile, err := e.Directory.GetEmployee(ctx, emp.ID)
	if err != nil {
		return false, &FetchError{EmployeeID: emp.ID, What: "profile", Err: err}
	}

	current, err := e.Directory.ListAssignedConcepts(ctx, emp.ID)
	if err != nil {
		return false, &FetchError{EmployeeID: emp.ID, What: "assigned concepts", Err: err}
	}

	years := CompletedYears(profile.HireDate, e.Now())
	decision := Resolve(years, profile.Gender)
	plan := BuildPlan(current, idx, decision)

	if !plan.Changed {
		return false, nil
	}

	payload := EmployeeUpdate{Employee: profile, AssignedConcepts: plan.Records}
	if err := e.Updater.UpdateEmployee(ctx, emp.ID, payload); err != nil {
		return false, &UpdateError{EmployeeID: emp.ID, Err: err}
	}

	log.Printf("[Engine] %s %s %s: %s (tenure %d)", emp.ID, profile.Surname, profile.Name, plan.Summary, years)
	return true, nil
}

// ReconcileAll runs one full sweep over the eligible employees and
// reports aggregate counts. Per-employee failures are counted and
// skipped; only shared-input failures abort the run.
func (e *Engine) ReconcileAll(ctx context.Context) (RunSummary, error) {
	var summary RunSummary

	employees, err := e.Directory.ListEmployees(ctx)
	if err != nil {
		return summary, &BatchFatalError{What: "employee list", Err: err}
	}

	catalog, err := e.Directory.ListConceptCatalog(ctx)
	if err != nil {
		return summary, &BatchFatalError{What: "concept catalog", Err: err}
	}

	matchers := e.TierMatchers
	if matchers == nil {
		matchers = DefaultTierMatchers()
	}
	idx := BuildCatalogIndex(catalog, matchers)

	for _, emp := range employees {
		if !e.Eligible(emp) {
			summary.Skipped++
			continue
		}

		changed, err := e.ReconcileOne(ctx, emp, idx)
		if err != nil {
			// Only fetch/update failures are isolated to one employee;
			// anything else aborts the run.
			if !IsPerEmployee(err) {
				return summary, err
			}
			summary.Errors++
			log.Printf("[Engine] %s: %v", emp.ID, err)
			continue
		}
		if changed {
			summary.Updated++
		}
	}

	return summary, nil
}
