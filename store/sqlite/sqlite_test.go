package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tenure-engine/store/sqlite"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedEmployee(t *testing.T, s *sqlite.Store, id string) tenure.Employee {
	emp := tenure.Employee{
		ID:       tenure.EmployeeID(id),
		Name:     "Ana",
		Surname:  "Duarte",
		HireDate: "2010-03-15",
		Gender:   "F",
		Guild:    "Sindicato Sanidad",
		Active:   true,
	}
	require.NoError(t, s.PutEmployee(context.Background(), emp))
	return emp
}

// =============================================================================
// DIRECTORY READS
// =============================================================================

func TestStore_EmployeeRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	want := seedEmployee(t, s, "500")

	got, err := s.GetEmployee(ctx, "500")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	all, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, want, all[0])
}

func TestStore_GetEmployee_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetEmployee(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tenure.ErrEmployeeNotFound))
}

func TestStore_CatalogRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := tenure.ConceptCatalogEntry{ID: "c-ant", Name: "Antigüedad", Category: tenure.CategoryFixedBonus}
	require.NoError(t, s.PutCatalogEntry(ctx, entry))

	got, err := s.ListConceptCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entry, got[0])
}

// =============================================================================
// FULL-REPLACEMENT UPDATE
// =============================================================================

func TestStore_UpdateEmployee_FullReplacement(t *testing.T) {
	// GIVEN: Two assigned concepts
	// WHEN: Updating with a payload that omits one and adds a fresh record
	// THEN: The omitted record is gone, the fresh one got a generated id
	s := newTestStore(t)
	ctx := context.Background()
	emp := seedEmployee(t, s, "501")

	require.NoError(t, s.PutAssignedConcept(ctx, emp.ID, tenure.AssignedConceptRecord{
		ID: "a1", ConceptID: "c-ant", Units: decimal.NewFromInt(11),
	}))
	require.NoError(t, s.PutAssignedConcept(ctx, emp.ID, tenure.AssignedConceptRecord{
		ID: "a2", ConceptID: "c-sup-f1", Units: decimal.NewFromInt(1),
	}))

	payload := tenure.EmployeeUpdate{
		Employee: emp,
		AssignedConcepts: []tenure.AssignedConceptRecord{
			{ID: "a1", ConceptID: "c-ant", Units: decimal.NewFromInt(12)},
			{ConceptID: "c-sup-f2", Units: decimal.NewFromInt(1)},
		},
	}
	require.NoError(t, s.UpdateEmployee(ctx, emp.ID, payload))

	recs, err := s.ListAssignedConcepts(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byConcept := map[tenure.ConceptID]tenure.AssignedConceptRecord{}
	for _, r := range recs {
		byConcept[r.ConceptID] = r
	}

	assert.True(t, byConcept["c-ant"].Units.Equal(decimal.NewFromInt(12)))
	created, ok := byConcept["c-sup-f2"]
	require.True(t, ok)
	assert.NotEmpty(t, created.ID, "fresh record gets a generated id")

	_, stale := byConcept["c-sup-f1"]
	assert.False(t, stale, "omitted record must be deleted")
}

func TestStore_UpdateEmployee_UnknownEmployee(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateEmployee(context.Background(), "missing", tenure.EmployeeUpdate{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tenure.ErrEmployeeNotFound))
}

// =============================================================================
// CHECKPOINTS
// =============================================================================

func TestStore_CheckpointRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetCheckpoint(ctx, "tenure:last-run")
	require.NoError(t, err)
	assert.Empty(t, got, "missing checkpoint reads as empty")

	require.NoError(t, s.SetCheckpoint(ctx, "tenure:last-run", "2026-8"))
	require.NoError(t, s.SetCheckpoint(ctx, "tenure:last-run", "2026-9"))

	got, err = s.GetCheckpoint(ctx, "tenure:last-run")
	require.NoError(t, err)
	assert.Equal(t, "2026-9", got)
}

// =============================================================================
// END-TO-END WITH THE ENGINE
// =============================================================================

func TestStore_EngineSweepAgainstSQLite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entries := []tenure.ConceptCatalogEntry{
		{ID: "c-ant", Name: "Antigüedad", Category: tenure.CategoryFixedBonus},
		{ID: "c-sup-f2", Name: "Suplemento antigüedad 22 años o más", Category: tenure.CategorySupplement},
	}
	for _, e := range entries {
		require.NoError(t, s.PutCatalogEntry(ctx, e))
	}

	emp := seedEmployee(t, s, "502") // hired 2010-03-15, female
	require.NoError(t, s.PutAssignedConcept(ctx, emp.ID, tenure.AssignedConceptRecord{
		ID: "a1", ConceptID: "c-ant", Units: decimal.NewFromInt(10),
	}))

	engine := tenure.NewEngine(s, s, emp.Guild)
	engine.Now = func() time.Time { return time.Date(2032, time.June, 1, 0, 0, 0, 0, time.UTC) }

	summary, err := engine.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)

	recs, err := s.ListAssignedConcepts(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
}
