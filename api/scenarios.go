/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for demos. Each scenario creates the concept catalog plus a set of
  employees whose assigned concepts exercise a specific behavior of the
  reconciliation engine.

AVAILABLE SCENARIOS:
  baseline:      Mixed-tenure staff, fixed bonuses already assigned
  drifted:       Stale supplement records (wrong tier, duplicates)
  mixed-guilds:  Ineligible guilds and inactive employees filtered out

NOTE:
  Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Error/JSON helpers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var scenarios = []ScenarioDTO{
	{
		ID:          "baseline",
		Name:        "Baseline staff",
		Description: "Mixed-tenure employees with fixed bonuses already assigned; first sweep corrects quantities and assigns supplement tiers.",
	},
	{
		ID:          "drifted",
		Name:        "Drifted supplements",
		Description: "Employees holding stale or duplicated supplement records; one sweep normalizes each to a single correct tier.",
	},
	{
		ID:          "mixed-guilds",
		Name:        "Mixed guilds",
		Description: "Eligible and ineligible guilds plus inactive employees; only eligible active staff are touched.",
	},
}

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "baseline":
		err = h.loadBaselineScenario(ctx)
	case "drifted":
		err = h.loadDriftedScenario(ctx)
	case "mixed-guilds":
		err = h.loadMixedGuildsScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown scenario: %q", req.ScenarioID))
		return
	}

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// LOADERS
// =============================================================================

func (h *Handler) seedCatalog(ctx context.Context) error {
	entries := []tenure.ConceptCatalogEntry{
		{ID: "c-ant", Name: "Antigüedad", Category: tenure.CategoryFixedBonus},
		{ID: "c-sup-m1", Name: "Suplemento antigüedad 10 a 24 años", Category: tenure.CategorySupplement},
		{ID: "c-sup-m2", Name: "Suplemento antigüedad 25 años o más", Category: tenure.CategorySupplement},
		{ID: "c-sup-f1", Name: "Suplemento antigüedad 10 a 21 años", Category: tenure.CategorySupplement},
		{ID: "c-sup-f2", Name: "Suplemento antigüedad 22 años o más", Category: tenure.CategorySupplement},
		{ID: "c-zona", Name: "Adicional por zona", Category: "zone-adjustment"},
	}
	for _, e := range entries {
		if err := h.Store.PutCatalogEntry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func hireDateYearsAgo(years int) string {
	return time.Now().AddDate(-years, 0, -30).Format(tenure.HireDateLayout)
}

func (h *Handler) loadBaselineScenario(ctx context.Context) error {
	if err := h.seedCatalog(ctx); err != nil {
		return err
	}

	guild := h.Engine.Guild
	staff := []struct {
		emp   tenure.Employee
		bonus int
	}{
		{tenure.Employee{ID: "1001", Name: "Marta", Surname: "Gómez", HireDate: hireDateYearsAgo(23), Gender: "Femenino", Guild: guild, Active: true}, 20},
		{tenure.Employee{ID: "1002", Name: "Jorge", Surname: "Paz", HireDate: hireDateYearsAgo(12), Gender: "Masculino", Guild: guild, Active: true}, 11},
		{tenure.Employee{ID: "1003", Name: "Lucía", Surname: "Ríos", HireDate: hireDateYearsAgo(4), Gender: "F", Guild: guild, Active: true}, 4},
	}

	for _, s := range staff {
		if err := h.Store.PutEmployee(ctx, s.emp); err != nil {
			return err
		}
		rec := tenure.AssignedConceptRecord{
			ConceptType: "remunerativo",
			ConceptID:   "c-ant",
			Units:       decimal.NewFromInt(int64(s.bonus)),
		}
		if err := h.Store.PutAssignedConcept(ctx, s.emp.ID, rec); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadDriftedScenario(ctx context.Context) error {
	if err := h.seedCatalog(ctx); err != nil {
		return err
	}

	guild := h.Engine.Guild
	emp := tenure.Employee{ID: "2001", Name: "Raúl", Surname: "Vega", HireDate: hireDateYearsAgo(26), Gender: "M", Guild: guild, Active: true}
	if err := h.Store.PutEmployee(ctx, emp); err != nil {
		return err
	}

	// Stale tier plus a duplicate: one sweep must leave exactly one
	// supplement record, on the 25+ tier.
	recs := []tenure.AssignedConceptRecord{
		{ConceptType: "remunerativo", ConceptID: "c-ant", Units: decimal.NewFromInt(25)},
		{ConceptType: "remunerativo", ConceptID: "c-sup-m1", Units: decimal.NewFromInt(1)},
		{ConceptType: "remunerativo", ConceptID: "c-sup-m1", Units: decimal.NewFromInt(1)},
	}
	for _, rec := range recs {
		if err := h.Store.PutAssignedConcept(ctx, emp.ID, rec); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadMixedGuildsScenario(ctx context.Context) error {
	if err := h.seedCatalog(ctx); err != nil {
		return err
	}

	guild := h.Engine.Guild
	staff := []tenure.Employee{
		{ID: "3001", Name: "Elena", Surname: "Sosa", HireDate: hireDateYearsAgo(15), Gender: "F", Guild: guild, Active: true},
		{ID: "3002", Name: "Pablo", Surname: "Ibáñez", HireDate: hireDateYearsAgo(18), Gender: "M", Guild: "UOM", Active: true},
		{ID: "3003", Name: "Nora", Surname: "Luna", HireDate: hireDateYearsAgo(30), Gender: "F", Guild: guild, Active: false},
	}
	for _, emp := range staff {
		if err := h.Store.PutEmployee(ctx, emp); err != nil {
			return err
		}
		rec := tenure.AssignedConceptRecord{
			ConceptType: "remunerativo",
			ConceptID:   "c-ant",
			Units:       decimal.NewFromInt(1),
		}
		if err := h.Store.PutAssignedConcept(ctx, emp.ID, rec); err != nil {
			return err
		}
	}
	return nil
}
