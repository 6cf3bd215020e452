package tenure_test

import (
	"testing"
	"time"

	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// TENURE BOUNDARY TESTS
// =============================================================================

func asOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestCompletedYears_ExactAnniversary(t *testing.T) {
	// GIVEN: Hired exactly 10 years ago, same month and day
	// THEN: 10 completed years
	got := tenure.CompletedYears("2016-09-01", asOf(2026, time.September, 1))
	if got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestCompletedYears_DayBeforeAnniversary(t *testing.T) {
	// GIVEN: The anniversary is tomorrow
	// THEN: Still the previous year count
	got := tenure.CompletedYears("2016-09-02", asOf(2026, time.September, 1))
	if got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
}

func TestCompletedYears_DayAfterAnniversary(t *testing.T) {
	// GIVEN: The anniversary was yesterday
	// THEN: The new year count
	got := tenure.CompletedYears("2016-08-31", asOf(2026, time.September, 1))
	if got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestCompletedYears_AnniversaryLaterThisYear(t *testing.T) {
	// GIVEN: Hired in December; it is September
	// THEN: Month comparison alone decrements the year
	got := tenure.CompletedYears("2016-12-15", asOf(2026, time.September, 1))
	if got != 9 {
		t.Fatalf("expected 9, got %d", got)
	}
}

func TestCompletedYears_MalformedOrMissing(t *testing.T) {
	cases := []string{"", "31/12/2005", "not-a-date", "2016-13-40"}
	for _, hire := range cases {
		if got := tenure.CompletedYears(hire, asOf(2026, time.September, 1)); got != 0 {
			t.Fatalf("hire date %q: expected 0, got %d", hire, got)
		}
	}
}

func TestCompletedYears_FutureHireDateFloorsAtZero(t *testing.T) {
	got := tenure.CompletedYears("2030-01-01", asOf(2026, time.September, 1))
	if got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
