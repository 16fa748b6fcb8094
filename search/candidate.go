package search

import "github.com/gcbaptista/lexidex/config"

// candidate is a document's raw, in-progress search result: a running
// score, the set of original query terms that contributed to it, and for
// each matched field the set of query terms matched there.
type candidate struct {
	score         float64
	sourceTerms   map[string]struct{}
	matchedFields map[string]map[string]struct{}
}

func newCandidate() *candidate {
	return &candidate{
		sourceTerms:   make(map[string]struct{}),
		matchedFields: make(map[string]map[string]struct{}),
	}
}

func (c *candidate) addTermMatch(fieldName, queryTerm string, score float64) {
	c.score += score
	c.sourceTerms[queryTerm] = struct{}{}
	fields, ok := c.matchedFields[fieldName]
	if !ok {
		fields = make(map[string]struct{})
		c.matchedFields[fieldName] = fields
	}
	fields[queryTerm] = struct{}{}
}

func (c *candidate) clone() *candidate {
	out := newCandidate()
	out.score = c.score
	for t := range c.sourceTerms {
		out.sourceTerms[t] = struct{}{}
	}
	for field, terms := range c.matchedFields {
		set := make(map[string]struct{}, len(terms))
		for t := range terms {
			set[t] = struct{}{}
		}
		out.matchedFields[field] = set
	}
	return out
}

func mergeCandidates(a, b *candidate) *candidate {
	out := a.clone()
	out.score += b.score
	for t := range b.sourceTerms {
		out.sourceTerms[t] = struct{}{}
	}
	for field, terms := range b.matchedFields {
		set, ok := out.matchedFields[field]
		if !ok {
			set = make(map[string]struct{})
			out.matchedFields[field] = set
		}
		for t := range terms {
			set[t] = struct{}{}
		}
	}
	return out
}

// combine merges two per-document candidate maps according to mode:
// OR unions both sets, adding scores and matched-field data for documents
// present in both; AND keeps only documents present in both, still adding
// scores; AND_NOT keeps a's documents minus b's, unchanged.
func combine(a, b map[uint32]*candidate, mode config.CombineMode) map[uint32]*candidate {
	switch mode {
	case config.CombineAND:
		out := make(map[uint32]*candidate)
		for id, ca := range a {
			if cb, ok := b[id]; ok {
				out[id] = mergeCandidates(ca, cb)
			}
		}
		return out
	case config.CombineANDNOT:
		out := make(map[uint32]*candidate)
		for id, ca := range a {
			if _, ok := b[id]; !ok {
				out[id] = ca
			}
		}
		return out
	default: // OR
		out := make(map[uint32]*candidate, len(a))
		for id, ca := range a {
			out[id] = ca.clone()
		}
		for id, cb := range b {
			if existing, ok := out[id]; ok {
				out[id] = mergeCandidates(existing, cb)
			} else {
				out[id] = cb.clone()
			}
		}
		return out
	}
}
