package search

import (
	"testing"

	"github.com/gcbaptista/lexidex/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneDoc(shortID uint32, score float64, term string) map[uint32]*candidate {
	c := newCandidate()
	c.addTermMatch("title", term, score)
	return map[uint32]*candidate{shortID: c}
}

func TestCombineORUnionsAndAddsScores(t *testing.T) {
	a := oneDoc(1, 1.0, "red")
	b := oneDoc(1, 2.0, "fox")
	b[2] = newCandidate()
	b[2].addTermMatch("title", "fox", 3.0)

	out := combine(a, b, config.CombineOR)

	require.Len(t, out, 2)
	assert.InDelta(t, 3.0, out[1].score, 1e-9)
	assert.Equal(t, 2, len(out[1].sourceTerms))
	assert.InDelta(t, 3.0, out[2].score, 1e-9)
}

func TestCombineANDKeepsOnlyIntersection(t *testing.T) {
	a := oneDoc(1, 1.0, "red")
	a[2] = newCandidate()
	a[2].addTermMatch("title", "red", 1.0)
	b := oneDoc(1, 2.0, "fox")

	out := combine(a, b, config.CombineAND)

	require.Len(t, out, 1)
	assert.Contains(t, out, uint32(1))
	assert.InDelta(t, 3.0, out[1].score, 1e-9)
}

func TestCombineANDNOTKeepsFirstMinusSecondUnchanged(t *testing.T) {
	a := oneDoc(1, 1.0, "red")
	a[2] = newCandidate()
	a[2].addTermMatch("title", "red", 5.0)
	b := oneDoc(2, 9.0, "panda")

	out := combine(a, b, config.CombineANDNOT)

	require.Len(t, out, 1)
	assert.InDelta(t, 1.0, out[1].score, 1e-9)
}
