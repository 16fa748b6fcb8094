package radix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuzzyGetReportsEachKeyWithinDistance(t *testing.T) {
	m := New[int]()
	keys := []string{"acqua", "aqua", "acquire", "summer"}
	for i, k := range keys {
		require.NoError(t, m.Set(k, i))
	}

	got := m.FuzzyGet("acqua", 3)

	want := map[string]int{"acqua": 0, "aqua": 1, "acquire": 3}
	require.Len(t, got, len(want))
	for k, dist := range want {
		match, ok := got[k]
		require.True(t, ok, "expected match for %q", k)
		assert.Equal(t, dist, match.Distance, "distance for %q", k)
	}
}

func TestFuzzyGetZeroDistanceMatchesExact(t *testing.T) {
	m := New[string]()
	require.NoError(t, m.Set("hello", "v1"))
	require.NoError(t, m.Set("help", "v2"))

	got := m.FuzzyGet("hello", 0)
	require.Len(t, got, 1)
	match, ok := got["hello"]
	require.True(t, ok)
	assert.Equal(t, 0, match.Distance)
	assert.Equal(t, "v1", match.Value)
}

func TestFuzzyGetAbsentNoNearMatches(t *testing.T) {
	m := New[int]()
	require.NoError(t, m.Set("xylophone", 1))

	got := m.FuzzyGet("zzz", 1)
	assert.Empty(t, got)
}

func TestFuzzyGetReportsTrueMinimumDistance(t *testing.T) {
	m := New[int]()
	require.NoError(t, m.Set("kitten", 1))

	got := m.FuzzyGet("sitting", 3)
	match, ok := got["kitten"]
	require.True(t, ok)
	assert.Equal(t, 3, match.Distance)
}

func TestFuzzyGetPrunesBeyondMaxDistance(t *testing.T) {
	m := New[int]()
	require.NoError(t, m.Set("a", 1))
	require.NoError(t, m.Set("completely-unrelated-and-long", 2))

	got := m.FuzzyGet("a", 1)
	_, hasA := got["a"]
	assert.True(t, hasA)
	_, hasOther := got["completely-unrelated-and-long"]
	assert.False(t, hasOther)
}
