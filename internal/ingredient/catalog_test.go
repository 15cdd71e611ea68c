package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.CanonicalName)
	}
	return out
}

func TestCatalogMatchPrefersLongestOverlap(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Record{
		{ID: 1, CanonicalName: "Acid"},
		{ID: 2, CanonicalName: "Salicylic Acid"},
	})

	got := catalog.Match([]string{"Salicylic Acid Extract"})
	require.Len(t, got, 1)
	assert.Equal(t, "Salicylic Acid", got[0].CanonicalName)
}

func TestCatalogMatchIsCaseInsensitiveAndUsesAliases(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(SeedRecords())

	got := catalog.Match([]string{"AQUA", "parfum", "sodium hyaluronate"})
	assert.Equal(t, []string{"Water", "Fragrance", "Hyaluronic Acid"}, names(got))
}

func TestCatalogMatchReverseContainment(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Record{
		{ID: 1, CanonicalName: "Sodium Lauryl Sulfate", Aliases: []string{"SLS"}},
		{ID: 2, CanonicalName: "Tocopherol", Aliases: []string{"Vitamin E"}},
	})

	got := catalog.Match([]string{"Lauryl"})
	assert.Equal(t, []string{"Sodium Lauryl Sulfate"}, names(got))

	// Fragments shorter than MinReverseMatchRunes are not matched in reverse.
	got = catalog.Match([]string{"E", "So"})
	assert.Empty(t, got)
}

func TestCatalogMatchTieBreaks(t *testing.T) {
	t.Parallel()

	t.Run("earlier record wins", func(t *testing.T) {
		t.Parallel()
		catalog := NewCatalog([]Record{
			{ID: 7, CanonicalName: "Oil B"},
			{ID: 3, CanonicalName: "Oil A"},
		})
		// "oil" is inside both names with the same overlap; ID 3 comes first.
		got := catalog.Match([]string{"Oil"})
		require.Len(t, got, 1)
		assert.Equal(t, uint(3), got[0].ID)
	})

	t.Run("record order outranks name kind", func(t *testing.T) {
		t.Parallel()
		catalog := NewCatalog([]Record{
			{ID: 1, CanonicalName: "Aloe", Aliases: []string{"Vera"}},
			{ID: 2, CanonicalName: "Vera"},
		})
		got := catalog.Match([]string{"Vera"})
		require.Len(t, got, 1)
		assert.Equal(t, uint(1), got[0].ID)
	})
}

func TestCatalogMatchDropsUnmatchedAndKeepsOrder(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(SeedRecords())

	got := catalog.Match([]string{"Zinc Oxide", "Unobtainium", "Water", "Water"})
	assert.Equal(t, []string{"Zinc Oxide", "Water", "Water"}, names(got))

	assert.Empty(t, catalog.Match(nil))
	assert.NotNil(t, catalog.Match(nil))
}

func TestCatalogMatchIsDeterministic(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(SeedRecords())
	tokens := Normalize("Aqua, Retinol, Glycerin, Hyaluronic Acid, Tocopherol, Acid, Vitamin")

	first := catalog.Match(tokens)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, catalog.Match(tokens))
	}
}

func TestCatalogIgnoresEmptyAliases(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]Record{
		{ID: 1, CanonicalName: "Water", Aliases: []string{"", "  "}},
		{ID: 2, CanonicalName: "Glycerin"},
	})

	got := catalog.Match([]string{"Glycerin"})
	assert.Equal(t, []string{"Glycerin"}, names(got))
}

func TestCatalogSearchAndLookup(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog(SeedRecords())

	// Retinol is found through its alias "Retinoic Acid".
	assert.Equal(t, []string{"Retinol", "Hyaluronic Acid", "Salicylic Acid"}, names(catalog.Search("acid")))
	assert.Len(t, catalog.Search(""), 15)
	assert.Empty(t, catalog.Search("unobtainium"))

	rec, ok := catalog.Lookup(6)
	require.True(t, ok)
	assert.Equal(t, "Fragrance", rec.CanonicalName)

	_, ok = catalog.Lookup(99)
	assert.False(t, ok)
}

func TestNilCatalog(t *testing.T) {
	t.Parallel()

	var catalog *Catalog
	assert.Empty(t, catalog.Match([]string{"Water"}))
	assert.Equal(t, 0, catalog.Len())
	assert.Nil(t, catalog.Records())
}
