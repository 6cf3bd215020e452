/*
planner.go - Minimal change plan against current assignments

PURPOSE:
  Given an employee's currently-assigned concepts, the catalog index and
  the entitlement decision, produce the full replacement list the update
  collaborator expects, plus a changed flag so no-op writes can be skipped.

ALGORITHM:
  1. Partition current records: fixed-bonus record (by catalog id),
     currently-assigned supplement records (by catalog id set), and
     everything else, which passes through verbatim.
  2. Fixed bonus: correct the quantity of an existing record. Never
     fabricate one (it must pre-exist from initial employee setup), and
     never remove one, even when the decision yields no bonus.
  3. Supplement: drop ALL current supplement records, then append exactly
     one fresh record (quantity 1, no assignment id) when the decision's
     tier has a catalog match. An employee drifted into holding several
     supplement records is normalized to one-or-zero on every run; that is
     an idempotence requirement, not a bug fix.
  4. Changed iff the fixed-bonus quantity moved or the supplement
     membership differs from the prior assigned set.
*/
package tenure

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BuildPlan computes the replacement assigned-concept list for one
// employee. The output list preserves the relative order of pass-through
// records; owned records come last.
func BuildPlan(current []AssignedConceptRecord, idx *CatalogIndex, decision Decision) Plan {
	var (
		passThrough []AssignedConceptRecord
		fixedBonus  *AssignedConceptRecord
		supplements []AssignedConceptRecord
	)

	for _, rec := range current {
		switch {
		case idx.FixedBonusID != "" && rec.ConceptID == idx.FixedBonusID:
			if fixedBonus == nil {
				r := rec
				fixedBonus = &r
			} else {
				// Duplicate fixed-bonus rows are inconsistent state; keep
				// the first, pass the rest through untouched.
				passThrough = append(passThrough, rec)
			}
		case idx.IsSupplement(rec.ConceptID):
			supplements = append(supplements, rec)
		default:
			passThrough = append(passThrough, rec)
		}
	}

	var changes []string
	result := append([]AssignedConceptRecord(nil), passThrough...)

	// Fixed bonus: quantity correction only. Never fabricated, never removed.
	if fixedBonus != nil {
		if decision.HasFixedBonus {
			want := decimal.NewFromInt(int64(decision.FixedBonusQuantity))
			if !fixedBonus.Units.Equal(want) {
				changes = append(changes, fmt.Sprintf("fixed bonus %s -> %s", fixedBonus.Units, want))
				fixedBonus.Units = want
			}
		}
		result = append(result, *fixedBonus)
	}

	// Supplement: full reset to the decided tier.
	wantEntry, haveWant := idx.EntryForTier(decision.Tier)
	if decision.Tier == "" {
		haveWant = false
	}

	supplementChanged := false
	switch {
	case !haveWant && len(supplements) > 0:
		supplementChanged = true
		changes = append(changes, fmt.Sprintf("supplement removed (%d record(s))", len(supplements)))
	case haveWant && len(supplements) != 1:
		supplementChanged = true
		changes = append(changes, fmt.Sprintf("supplement set to %q", wantEntry.Name))
	case haveWant && supplements[0].ConceptID != wantEntry.ID:
		supplementChanged = true
		changes = append(changes, fmt.Sprintf("supplement %s -> %s (%q)", supplements[0].ConceptID, wantEntry.ID, wantEntry.Name))
	}

	if haveWant {
		if supplementChanged {
			// Fresh record with no assignment id signals "create" to the
			// update collaborator.
			result = append(result, AssignedConceptRecord{
				ConceptType: supplementConceptType(supplements),
				ConceptID:   wantEntry.ID,
				Units:       decimal.NewFromInt(1),
			})
		} else {
			result = append(result, supplements[0])
		}
	}

	return Plan{
		Records: result,
		Changed: len(changes) > 0,
		Summary: strings.Join(changes, "; "),
	}
}

// supplementConceptType carries the concept-type tag forward from a prior
// supplement record when one exists; otherwise the default tag is used.
func supplementConceptType(prior []AssignedConceptRecord) string {
	for _, rec := range prior {
		if rec.ConceptType != "" {
			return rec.ConceptType
		}
	}
	return "supplement"
}
