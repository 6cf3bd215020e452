package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/tenure-engine/api"
	"github.com/warp/tenure-engine/scheduler"
	"github.com/warp/tenure-engine/store/sqlite"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testGuild = "Sindicato Sanidad"

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := tenure.NewEngine(store, store, testGuild)
	engine.Now = func() time.Time {
		return time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	}
	sched := scheduler.New(engine, store)
	sched.Now = engine.Now

	handler := api.NewHandler(store, engine, sched)
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, store
}

func seed(t *testing.T, store *sqlite.Store) tenure.Employee {
	ctx := context.Background()
	entries := []tenure.ConceptCatalogEntry{
		{ID: "c-ant", Name: "Antigüedad", Category: tenure.CategoryFixedBonus},
		{ID: "c-sup-m1", Name: "Suplemento antigüedad 10 a 24 años", Category: tenure.CategorySupplement},
	}
	for _, e := range entries {
		require.NoError(t, store.PutCatalogEntry(ctx, e))
	}

	emp := tenure.Employee{
		ID: "100", Name: "Jorge", Surname: "Paz",
		HireDate: "2014-02-01", Gender: "M", Guild: testGuild, Active: true,
	}
	require.NoError(t, store.PutEmployee(ctx, emp))
	require.NoError(t, store.PutAssignedConcept(ctx, emp.ID, tenure.AssignedConceptRecord{
		ID: "a1", ConceptID: "c-ant", Units: decimal.NewFromInt(11),
	}))
	return emp
}

func getJSON(t *testing.T, url string, out any) int {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestListEmployees_IncludesDerivedTenure(t *testing.T) {
	srv, store := newTestServer(t)
	seed(t, store)

	var got []api.EmployeeDTO
	status := getJSON(t, srv.URL+"/api/employees", &got)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, got, 1)
	assert.Equal(t, "100", got[0].Legajo)
	assert.Equal(t, 12, got[0].Tenure)
}

func TestGetEmployee_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	status := getJSON(t, srv.URL+"/api/employees/999", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// =============================================================================
// ADMIN: MANUAL RECONCILE
// =============================================================================

func TestTriggerReconcile_RunsSweep(t *testing.T) {
	srv, store := newTestServer(t)
	emp := seed(t, store)

	resp, err := http.Post(srv.URL+"/api/admin/reconcile", "application/json", bytes.NewReader(nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary api.RunSummaryDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.True(t, summary.Ran)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Errors)

	// The employee now holds the corrected bonus and the 10-24 tier.
	var concepts []api.AssignedConceptDTO
	status := getJSON(t, srv.URL+"/api/employees/"+string(emp.ID)+"/concepts", &concepts)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, concepts, 2)
}

// parkingUpdater blocks inside the update path and tracks how many
// sweeps are in it at once.
type parkingUpdater struct {
	inner   tenure.Updater
	release chan struct{}

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
}

func (p *parkingUpdater) UpdateEmployee(ctx context.Context, id tenure.EmployeeID, payload tenure.EmployeeUpdate) error {
	p.mu.Lock()
	p.inFlight++
	if p.inFlight > p.maxInFlight {
		p.maxInFlight = p.inFlight
	}
	p.mu.Unlock()

	<-p.release

	p.mu.Lock()
	p.inFlight--
	p.mu.Unlock()
	return p.inner.UpdateEmployee(ctx, id, payload)
}

func (p *parkingUpdater) max() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxInFlight
}

func TestTriggerReconcile_ConcurrentRequestsSingleFlight(t *testing.T) {
	// GIVEN: A sweep parked inside the update call
	// WHEN: A second manual trigger arrives
	// THEN: One request sweeps (200), the other is rejected (409), and at
	//       no point do two sweeps run in parallel
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	engine := tenure.NewEngine(store, store, testGuild)
	engine.Now = func() time.Time {
		return time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	}
	updater := &parkingUpdater{inner: store, release: make(chan struct{})}
	engine.Updater = updater

	sched := scheduler.New(engine, store)
	sched.Now = engine.Now

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(store, engine, sched)))
	t.Cleanup(srv.Close)
	seed(t, store)

	firstStatus := make(chan int, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/api/admin/reconcile", "application/json", nil)
		if err != nil {
			firstStatus <- -1
			return
		}
		resp.Body.Close()
		firstStatus <- resp.StatusCode
	}()

	require.Eventually(t, func() bool { return updater.max() > 0 }, time.Second, time.Millisecond,
		"first sweep should reach the update path")

	// Second request while the first is parked inside its update call.
	resp, err := http.Post(srv.URL+"/api/admin/reconcile", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "concurrent manual trigger must be rejected")

	close(updater.release)
	assert.Equal(t, http.StatusOK, <-firstStatus)
	assert.Equal(t, 1, updater.max(), "sweeps must never overlap in the update path")
}

func TestSchedulerStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	var status api.SchedulerStatusDTO
	code := getJSON(t, srv.URL+"/api/admin/scheduler", &status)

	require.Equal(t, http.StatusOK, code)
	assert.False(t, status.Running)
	assert.Empty(t, status.LastCheckpoint)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestLoadScenario_Drifted_ThenReconcileNormalizes(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(api.LoadScenarioRequest{ScenarioID: "drifted"})
	resp, err := http.Post(srv.URL+"/api/scenarios/load", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/admin/reconcile", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var concepts []api.AssignedConceptDTO
	code := getJSON(t, srv.URL+"/api/employees/2001/concepts", &concepts)
	require.Equal(t, http.StatusOK, code)

	supplements := 0
	for _, c := range concepts {
		if c.ConceptID == "c-sup-m1" || c.ConceptID == "c-sup-m2" {
			supplements++
			assert.Equal(t, "c-sup-m2", c.ConceptID, "26-year male lands on the 25+ tier")
		}
	}
	assert.Equal(t, 1, supplements, "drift normalized to a single supplement record")
}

func TestLoadScenario_Unknown(t *testing.T) {
	srv, _ := newTestServer(t)

	body, _ := json.Marshal(api.LoadScenarioRequest{ScenarioID: "nope"})
	resp, err := http.Post(srv.URL+"/api/scenarios/load", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
