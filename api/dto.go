/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	Legajo   string `json:"legajo"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	HireDate string `json:"hire_date"`
	Gender   string `json:"gender"`
	Guild    string `json:"guild"`
	Active   bool   `json:"active"`

	// Tenure is derived at response time, never stored.
	Tenure int `json:"tenure_years"`
}

// AssignedConceptDTO represents one assigned concept.
type AssignedConceptDTO struct {
	ID          string `json:"id,omitempty"`
	ConceptType string `json:"concept_type,omitempty"`
	ConceptID   string `json:"concept_id"`
	Units       string `json:"unidades"`
}

// CatalogEntryDTO represents one concept catalog entry.
type CatalogEntryDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// RunSummaryDTO reports the outcome of a reconciliation sweep.
type RunSummaryDTO struct {
	Ran     bool   `json:"ran"`
	Updated int    `json:"updated"`
	Errors  int    `json:"errors"`
	Skipped int    `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// SchedulerStatusDTO reports the scheduler's current state.
type SchedulerStatusDTO struct {
	Running        bool   `json:"running"`
	LastCheckpoint string `json:"last_checkpoint,omitempty"`
	NextCheck      string `json:"next_check"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEmployeeDTO(emp tenure.Employee, tenureYears int) EmployeeDTO {
	return EmployeeDTO{
		Legajo:   string(emp.ID),
		Name:     emp.Name,
		Surname:  emp.Surname,
		HireDate: emp.HireDate,
		Gender:   emp.Gender,
		Guild:    emp.Guild,
		Active:   emp.Active,
		Tenure:   tenureYears,
	}
}

func toAssignedConceptDTOs(recs []tenure.AssignedConceptRecord) []AssignedConceptDTO {
	out := make([]AssignedConceptDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, AssignedConceptDTO{
			ID:          string(rec.ID),
			ConceptType: rec.ConceptType,
			ConceptID:   string(rec.ConceptID),
			Units:       rec.Units.String(),
		})
	}
	return out
}
