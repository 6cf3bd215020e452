package tenure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/tenure-engine/tenure"
)

// =============================================================================
// NORMALIZATION
// =============================================================================

func TestNormalize_DiacriticsCaseWhitespace(t *testing.T) {
	cases := map[string]string{
		"Antigüedad":                     "antiguedad",
		"  SUPLEMENTO   Antigüedad ":     "suplemento antiguedad",
		"Años":                           "anos",
		"zona desfavorable":              "zona desfavorable",
		"Suplemento antigüedad 10 a 24 años": "suplemento antiguedad 10 a 24 anos",
	}
	for in, want := range cases {
		assert.Equal(t, want, tenure.Normalize(in))
	}
}

// =============================================================================
// CATALOG INDEX
// =============================================================================

func testCatalog() []tenure.ConceptCatalogEntry {
	return []tenure.ConceptCatalogEntry{
		{ID: "c-ant", Name: "Antigüedad", Category: tenure.CategoryFixedBonus},
		{ID: "c-sup-m1", Name: "Suplemento antigüedad 10 a 24 años", Category: tenure.CategorySupplement},
		{ID: "c-sup-m2", Name: "Suplemento antigüedad 25 años o más", Category: tenure.CategorySupplement},
		{ID: "c-sup-f1", Name: "Suplemento antigüedad 10 a 21 años", Category: tenure.CategorySupplement},
		{ID: "c-sup-f2", Name: "Suplemento antigüedad 22 años o más", Category: tenure.CategorySupplement},
		{ID: "c-zona", Name: "Adicional por zona", Category: "zone-adjustment"},
	}
}

func TestBuildCatalogIndex_ClassifiesEntries(t *testing.T) {
	idx := tenure.BuildCatalogIndex(testCatalog(), tenure.DefaultTierMatchers())

	assert.Equal(t, tenure.ConceptID("c-ant"), idx.FixedBonusID)

	assert.True(t, idx.IsSupplement("c-sup-m1"))
	assert.True(t, idx.IsSupplement("c-sup-f2"))
	assert.False(t, idx.IsSupplement("c-ant"))
	assert.False(t, idx.IsSupplement("c-zona"))

	for tier, wantID := range map[tenure.TierKey]tenure.ConceptID{
		tenure.TierMale10to24:   "c-sup-m1",
		tenure.TierMale25Plus:   "c-sup-m2",
		tenure.TierFemale10to21: "c-sup-f1",
		tenure.TierFemale22Plus: "c-sup-f2",
	} {
		entry, ok := idx.EntryForTier(tier)
		assert.True(t, ok, "tier %s should resolve", tier)
		assert.Equal(t, wantID, entry.ID, "tier %s", tier)
	}
}

func TestBuildCatalogIndex_MissingTierEntry(t *testing.T) {
	// GIVEN: A catalog without the 25+ entry
	// THEN: That tier simply has no match; nothing is invented
	catalog := []tenure.ConceptCatalogEntry{
		{ID: "c-ant", Name: "Antigüedad", Category: tenure.CategoryFixedBonus},
		{ID: "c-sup-m1", Name: "Suplemento antigüedad 10 a 24 años", Category: tenure.CategorySupplement},
	}
	idx := tenure.BuildCatalogIndex(catalog, tenure.DefaultTierMatchers())

	_, ok := idx.EntryForTier(tenure.TierMale25Plus)
	assert.False(t, ok)
}
