// Package store provides collaborator implementations backed by memory.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements tenure.Directory, tenure.Updater and
// scheduler.CheckpointStore in memory. Used by tests and the dev server.
type Memory struct {
	mu          sync.RWMutex
	employees   []tenure.Employee
	catalog     []tenure.ConceptCatalogEntry
	assigned    map[tenure.EmployeeID][]tenure.AssignedConceptRecord
	checkpoints map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		assigned:    make(map[tenure.EmployeeID][]tenure.AssignedConceptRecord),
		checkpoints: make(map[string]string),
	}
}

// -----------------------------------------------------------------------------
// Seeding
// -----------------------------------------------------------------------------

func (m *Memory) PutEmployee(emp tenure.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.employees {
		if e.ID == emp.ID {
			m.employees[i] = emp
			return
		}
	}
	m.employees = append(m.employees, emp)
}

func (m *Memory) PutCatalogEntry(entry tenure.ConceptCatalogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalog = append(m.catalog, entry)
}

func (m *Memory) PutAssignedConcepts(id tenure.EmployeeID, recs []tenure.AssignedConceptRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assigned[id] = append([]tenure.AssignedConceptRecord(nil), recs...)
}

// -----------------------------------------------------------------------------
// tenure.Directory
// -----------------------------------------------------------------------------

func (m *Memory) ListEmployees(_ context.Context) ([]tenure.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]tenure.Employee(nil), m.employees...), nil
}

func (m *Memory) GetEmployee(_ context.Context, id tenure.EmployeeID) (tenure.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return tenure.Employee{}, fmt.Errorf("%w: %s", tenure.ErrEmployeeNotFound, id)
}

func (m *Memory) ListAssignedConcepts(_ context.Context, id tenure.EmployeeID) ([]tenure.AssignedConceptRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]tenure.AssignedConceptRecord(nil), m.assigned[id]...), nil
}

func (m *Memory) ListConceptCatalog(_ context.Context) ([]tenure.ConceptCatalogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]tenure.ConceptCatalogEntry(nil), m.catalog...), nil
}

// -----------------------------------------------------------------------------
// tenure.Updater - full replacement
// -----------------------------------------------------------------------------

func (m *Memory) UpdateEmployee(_ context.Context, id tenure.EmployeeID, payload tenure.EmployeeUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for _, e := range m.employees {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", tenure.ErrEmployeeNotFound, id)
	}

	recs := make([]tenure.AssignedConceptRecord, len(payload.AssignedConcepts))
	for i, rec := range payload.AssignedConcepts {
		if rec.ID == "" {
			rec.ID = tenure.AssignmentID(uuid.NewString())
		}
		recs[i] = rec
	}
	m.assigned[id] = recs
	return nil
}

// -----------------------------------------------------------------------------
// scheduler.CheckpointStore
// -----------------------------------------------------------------------------

func (m *Memory) GetCheckpoint(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.checkpoints[key], nil
}

func (m *Memory) SetCheckpoint(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkpoints[key] = value
	return nil
}
