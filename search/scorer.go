// Package search implements the BM25+ scorer and the query engine: term
// expansion (exact/prefix/fuzzy), boolean combination of query trees, and
// result finalization.
package search

import (
	"math"

	"github.com/gcbaptista/lexidex/config"
	"github.com/gcbaptista/lexidex/index"
	"github.com/gcbaptista/lexidex/store"
)

// Scorer computes BM25+ contributions for a single (term, field, document)
// triple. Parameters are injectable per call, not fixed at construction.
type Scorer struct {
	idx  *index.InvertedIndex
	docs *store.DocStore
}

// NewScorer builds a Scorer over the given index and document store.
func NewScorer(idx *index.InvertedIndex, docs *store.DocStore) *Scorer {
	return &Scorer{idx: idx, docs: docs}
}

// Score computes the BM25+ contribution of one posting:
//
//	idf   = ln(1 + (N - n_f + 0.5) / (n_f + 0.5))
//	score = idf * (d + tf * (k + 1) / (tf + k * (1 - b + b * L / L_avg)))
func (s *Scorer) Score(term string, fieldID int, shortID uint32, tf int, params config.BM25Params) float64 {
	n := float64(s.docs.DocumentsCount())
	nf := float64(s.docFrequency(term, fieldID))
	idf := math.Log(1 + (n-nf+0.5)/(nf+0.5))

	l := float64(s.docs.FieldLength(shortID, fieldID))
	lAvg := s.docs.AvgFieldLength(fieldID)
	if lAvg == 0 {
		lAvg = 1
	}

	tff := float64(tf)
	denom := tff + params.K*(1-params.B+params.B*l/lAvg)
	if denom == 0 {
		return 0
	}
	return idf * (params.D + tff*(params.K+1)/denom)
}

// docFrequency returns the number of documents where term occurs in fieldID.
func (s *Scorer) docFrequency(term string, fieldID int) int {
	postings, ok := s.idx.Exact(term)
	if !ok {
		return 0
	}
	return len(postings[fieldID])
}
