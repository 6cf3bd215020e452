/*
resolver.go - Tenure + gender -> entitlement decision

PURPOSE:
  Decides which tenure benefits an employee is entitled to. Pure function:
  no I/O, no string matching against the catalog. It returns an abstract
  TierKey; mapping that key to a concrete catalog entry is catalog.go's job.

RULES:
  Fixed bonus:
    years >= 1 -> quantity = years
    years <  1 -> excluded from fixed-bonus processing entirely

  Supplement tiers (only when years >= 10):
    Male:   10..24 -> "10-24",  >= 25 -> "25+"
    Female: 10..21 -> "10-21",  >= 22 -> "22+"
    Any other gender code -> no tier

  The brackets are exhaustive and non-overlapping; resolver_test.go checks
  every boundary directly.

GENDER NORMALIZATION:
  Directory gender codes arrive in many spellings ("M", "masc",
  "Masculino", "FEMENINO", ...). They are normalized case- and
  diacritic-insensitively once, here at the boundary where external data
  enters the engine.
*/
package tenure

import "strings"

// =============================================================================
// GENDER NORMALIZATION
// =============================================================================

// GenderCode is the normalized gender used by bracket selection.
type GenderCode int

const (
	GenderOther GenderCode = iota
	GenderMale
	GenderFemale
)

// NormalizeGender maps a raw directory gender code to a GenderCode.
// Matching is case- and diacritic-insensitive; unknown codes map to
// GenderOther, which receives no supplement tier.
func NormalizeGender(raw string) GenderCode {
	s := Normalize(raw)
	switch s {
	case "m", "masc", "masculino", "male", "hombre", "varon":
		return GenderMale
	case "f", "fem", "femenino", "female", "mujer":
		return GenderFemale
	}
	// Tolerate trailing qualifiers ("masculino " with padding is handled
	// by Normalize; "masculino cis" is not a code we know).
	switch {
	case strings.HasPrefix(s, "masc"):
		return GenderMale
	case strings.HasPrefix(s, "fem"):
		return GenderFemale
	}
	return GenderOther
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolve computes the entitlement decision for a given tenure and raw
// gender code.
func Resolve(years int, gender string) Decision {
	d := Decision{}

	if years >= 1 {
		d.HasFixedBonus = true
		d.FixedBonusQuantity = years
	}

	d.Tier = resolveTier(years, NormalizeGender(gender))
	return d
}

func resolveTier(years int, gender GenderCode) TierKey {
	if years < 10 {
		return ""
	}
	switch gender {
	case GenderMale:
		if years <= 24 {
			return TierMale10to24
		}
		return TierMale25Plus
	case GenderFemale:
		if years <= 21 {
			return TierFemale10to21
		}
		return TierFemale22Plus
	}
	return ""
}
