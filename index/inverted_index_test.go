package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOccurrenceAccumulatesTermFrequency(t *testing.T) {
	ii := New()
	ii.AddOccurrence("search", 0, 1)
	ii.AddOccurrence("search", 0, 1)
	ii.AddOccurrence("search", 1, 1)

	postings, ok := ii.Exact("search")
	require.True(t, ok)
	assert.Equal(t, 2, postings[0][1])
	assert.Equal(t, 1, postings[1][1])
}

func TestRemoveOccurrenceCollapsesEmptyEntries(t *testing.T) {
	ii := New()
	ii.AddOccurrence("search", 0, 1)

	removed := ii.RemoveOccurrence("search", 0, 1)
	assert.True(t, removed)

	_, ok := ii.Exact("search")
	assert.False(t, ok)
	assert.Equal(t, 0, ii.TermCount())
}

func TestRemoveOccurrenceMissingReportsFalse(t *testing.T) {
	ii := New()
	assert.False(t, ii.RemoveOccurrence("ghost", 0, 1))

	ii.AddOccurrence("term", 0, 1)
	assert.False(t, ii.RemoveOccurrence("term", 0, 2))
	assert.False(t, ii.RemoveOccurrence("term", 1, 1))
}

func TestPrefixReturnsAllMatchingTerms(t *testing.T) {
	ii := New()
	ii.AddOccurrence("summer", 0, 1)
	ii.AddOccurrence("summertime", 0, 2)
	ii.AddOccurrence("sum", 0, 3)

	matches := ii.Prefix("summer")
	assert.Len(t, matches, 2)
	_, ok := matches["summer"]
	assert.True(t, ok)
	_, ok = matches["summertime"]
	assert.True(t, ok)
}

func TestFuzzyReturnsWithinDistance(t *testing.T) {
	ii := New()
	ii.AddOccurrence("acqua", 0, 1)
	ii.AddOccurrence("aqua", 0, 2)
	ii.AddOccurrence("acquire", 0, 3)

	matches := ii.Fuzzy("acqua", 3)
	assert.Len(t, matches, 3)
	assert.Equal(t, 1, matches["aqua"].Distance)
}

func TestVacuumBatchReclaimsDeadShortIDs(t *testing.T) {
	ii := New()
	ii.AddOccurrence("term", 0, 1)
	ii.AddOccurrence("term", 0, 2)

	live := map[uint32]bool{2: true}
	ii.VacuumBatch(ii.Terms(), func(id uint32) bool { return live[id] })

	postings, ok := ii.Exact("term")
	require.True(t, ok)
	_, hasOne := postings[0][1]
	assert.False(t, hasOne)
	_, hasTwo := postings[0][2]
	assert.True(t, hasTwo)
}

func TestVacuumBatchDropsFullyDeadTerm(t *testing.T) {
	ii := New()
	ii.AddOccurrence("ghost", 0, 1)

	ii.VacuumBatch(ii.Terms(), func(uint32) bool { return false })

	_, ok := ii.Exact("ghost")
	assert.False(t, ok)
}

func TestGobRoundTrip(t *testing.T) {
	ii := New()
	ii.AddOccurrence("term", 0, 1)
	ii.AddOccurrence("other", 1, 2)

	encoded, err := ii.GobEncode()
	require.NoError(t, err)

	decoded := New()
	require.NoError(t, decoded.GobDecode(encoded))

	postings, ok := decoded.Exact("term")
	require.True(t, ok)
	assert.Equal(t, 1, postings[0][1])
	assert.Equal(t, 2, decoded.TermCount())
}
