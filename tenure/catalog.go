/*
catalog.go - Concept catalog lookup

PURPOSE:
  Maps the abstract tier keys returned by the resolver to concrete concept
  catalog entries, and locates the fixed-bonus entry. Catalog entries are
  distinguished by category plus name; names arrive with inconsistent
  casing and accents ("Antigüedad", "ANTIGUEDAD 10 a 24 años"), so all
  matching goes through a diacritic- and case-insensitive normalization.

DESIGN:
  The matching rules live in a TierMatcher lookup table built once per run,
  not scattered through the reconciliation logic. The resolver never sees a
  catalog name; the planner never sees a raw one.

DEFAULT MATCHING:
  Supplement entry names carry the band boundaries ("10 a 24", "25",
  "10 a 21", "22"). DefaultTierMatchers keys on those after normalization.
  Deployments with different catalog naming inject their own matchers.
*/
package tenure

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// NORMALIZATION
// =============================================================================

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, trims, strips diacritics and collapses internal
// whitespace. All catalog-name and gender-code comparisons use this form.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// =============================================================================
// TIER MATCHERS - Injected name -> tier mapping
// =============================================================================

// TierMatcher decides whether a normalized supplement name belongs to a tier.
type TierMatcher struct {
	Tier TierKey

	// Substrings that must all appear in the normalized name.
	Contains []string
}

func (m TierMatcher) matches(normalized string) bool {
	for _, c := range m.Contains {
		if !strings.Contains(normalized, c) {
			return false
		}
	}
	return true
}

// DefaultTierMatchers covers the reference catalog naming, where each
// supplement entry spells out its band ("Suplemento antigüedad 10 a 24
// años (masculino)"). Order matters: the first match wins.
func DefaultTierMatchers() []TierMatcher {
	return []TierMatcher{
		{Tier: TierMale10to24, Contains: []string{"10 a 24"}},
		{Tier: TierMale25Plus, Contains: []string{"25"}},
		{Tier: TierFemale10to21, Contains: []string{"10 a 21"}},
		{Tier: TierFemale22Plus, Contains: []string{"22"}},
	}
}

// =============================================================================
// CATALOG INDEX - Built once per run, shared across the batch
// =============================================================================

// CatalogIndex is the run-scoped view of the concept catalog: the fixed
// bonus entry, the set of supplement entry ids, and the tier -> entry
// mapping.
type CatalogIndex struct {
	FixedBonusID ConceptID

	supplementIDs map[ConceptID]bool
	tierToEntry   map[TierKey]ConceptCatalogEntry
}

// BuildCatalogIndex classifies the catalog entries using the injected
// matchers. Entries in neither owned category are ignored; they belong to
// other subsystems and pass through reconciliation untouched.
func BuildCatalogIndex(entries []ConceptCatalogEntry, matchers []TierMatcher) *CatalogIndex {
	idx := &CatalogIndex{
		supplementIDs: make(map[ConceptID]bool),
		tierToEntry:   make(map[TierKey]ConceptCatalogEntry),
	}

	for _, e := range entries {
		switch e.Category {
		case CategoryFixedBonus:
			if idx.FixedBonusID == "" {
				idx.FixedBonusID = e.ID
			}
		case CategorySupplement:
			idx.supplementIDs[e.ID] = true
			name := Normalize(e.Name)
			for _, m := range matchers {
				if _, taken := idx.tierToEntry[m.Tier]; taken {
					continue
				}
				if m.matches(name) {
					idx.tierToEntry[m.Tier] = e
					break
				}
			}
		}
	}

	return idx
}

// IsSupplement reports whether a concept id is one of the catalog's
// supplement entries.
func (idx *CatalogIndex) IsSupplement(id ConceptID) bool {
	return idx.supplementIDs[id]
}

// EntryForTier resolves a tier key to its catalog entry.
func (idx *CatalogIndex) EntryForTier(tier TierKey) (ConceptCatalogEntry, bool) {
	e, ok := idx.tierToEntry[tier]
	return e, ok
}
