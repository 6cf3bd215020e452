/*
calculator.go - Completed years of service

PURPOSE:
  Pure tenure math: hire date + "now" -> whole completed years of service.
  Tenure is never persisted; every caller recomputes it here.

RULES:
  - Absent or unparseable hire date -> 0 (never an error)
  - Calendar years between hire date and asOf, minus one if the
    anniversary has not occurred yet this year
  - Floors at 0 (future hire dates)

TESTABILITY:
  "now" is a parameter, not time.Now(), so boundary cases (day before /
  day of / day after the anniversary) are deterministic.
*/
package tenure

import "time"

// HireDateLayout is the directory's wire format for hire dates.
const HireDateLayout = "2006-01-02"

// CompletedYears returns the whole years of service between hireDate and
// asOf. Malformed or empty hire dates count as zero years.
func CompletedYears(hireDate string, asOf time.Time) int {
	if hireDate == "" {
		return 0
	}
	hired, err := time.Parse(HireDateLayout, hireDate)
	if err != nil {
		return 0
	}

	years := asOf.Year() - hired.Year()

	// Anniversary not reached yet this year.
	if asOf.Month() < hired.Month() ||
		(asOf.Month() == hired.Month() && asOf.Day() < hired.Day()) {
		years--
	}

	if years < 0 {
		return 0
	}
	return years
}
