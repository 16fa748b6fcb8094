// Package index implements the inverted index: a term dictionary, backed by
// a radix tree, mapping each term to its per-field posting lists.
package index

import (
	"bytes"
	"encoding/gob"
	"sync"

	"github.com/gcbaptista/lexidex/radix"
)

// InvertedIndex maps a term to the fields and documents it occurs in. The
// term dictionary is a radix.Map so that prefix and fuzzy term expansion
// (§4.1 of the design) reuse the tree's point/prefix/fuzzy operations
// directly, instead of scanning a flat map.
type InvertedIndex struct {
	Mu    sync.RWMutex
	terms *radix.Map[TermPostings]
}

// New returns an empty InvertedIndex.
func New() *InvertedIndex {
	return &InvertedIndex{terms: radix.New[TermPostings]()}
}

// AddOccurrence records one occurrence of term in fieldID for shortID,
// incrementing the existing term frequency if the posting already exists.
func (ii *InvertedIndex) AddOccurrence(term string, fieldID int, shortID uint32) {
	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	postings := ii.terms.Fetch(term, func() TermPostings { return make(TermPostings) })
	field, ok := (*postings)[fieldID]
	if !ok {
		field = make(FieldPostings)
		(*postings)[fieldID] = field
	}
	field[shortID]++
}

// RemoveOccurrence removes one document's posting entirely for (term,
// field). It reports whether the posting existed, so callers can emit a
// version_conflict warning when it does not. Empty
// field and term entries are collapsed away, keeping invariant 1 intact.
func (ii *InvertedIndex) RemoveOccurrence(term string, fieldID int, shortID uint32) bool {
	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	postings, ok := ii.terms.Get(term)
	if !ok {
		return false
	}
	field, ok := postings[fieldID]
	if !ok {
		return false
	}
	if _, ok := field[shortID]; !ok {
		return false
	}
	delete(field, shortID)
	if len(field) == 0 {
		delete(postings, fieldID)
	}
	if len(postings) == 0 {
		ii.terms.Delete(term)
	}
	return true
}

// Exact returns the posting set for a term, if any.
func (ii *InvertedIndex) Exact(term string) (TermPostings, bool) {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()
	return ii.terms.Get(term)
}

// Prefix returns every term with the given prefix together with its
// posting set, satisfying invariant 7 (exactly the RadixMap keys with that
// prefix).
func (ii *InvertedIndex) Prefix(prefix string) map[string]TermPostings {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	out := make(map[string]TermPostings)
	for _, e := range ii.terms.AtPrefix(prefix).Entries() {
		out[e.Key] = e.Value
	}
	return out
}

// Fuzzy returns every term within maxDistance edits of query, together
// with its posting set and the true minimum distance (invariant 8).
func (ii *InvertedIndex) Fuzzy(query string, maxDistance int) map[string]radix.FuzzyMatch[TermPostings] {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()
	return ii.terms.FuzzyGet(query, maxDistance)
}

// TermCount returns the number of distinct terms currently indexed.
func (ii *InvertedIndex) TermCount() int {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()
	return ii.terms.Size()
}

// VacuumBatch visits each term in terms, deleting any posting whose
// short ID is no longer live per isLive, and collapsing any term or field
// entry left empty. Callers slice terms into batches themselves to drive
// cooperative yielding between calls during a vacuum pass.
func (ii *InvertedIndex) VacuumBatch(terms []string, isLive func(shortID uint32) bool) {
	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	for _, term := range terms {
		postings, ok := ii.terms.Get(term)
		if !ok {
			continue
		}
		for fieldID, field := range postings {
			for shortID := range field {
				if !isLive(shortID) {
					delete(field, shortID)
				}
			}
			if len(field) == 0 {
				delete(postings, fieldID)
			}
		}
		if len(postings) == 0 {
			ii.terms.Delete(term)
		}
	}
}

// Terms returns every currently indexed term, in deterministic order. Used
// by the vacuum driver to build batches.
func (ii *InvertedIndex) Terms() []string {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()
	return ii.terms.Keys()
}

// gobInvertedIndexData is a helper struct for Gob encoding/decoding
// InvertedIndex data. It excludes the mutex.
type gobInvertedIndexData struct {
	Entries []radix.Entry[TermPostings]
}

// GobEncode implements gob.GobEncoder for InvertedIndex.
func (ii *InvertedIndex) GobEncode() ([]byte, error) {
	ii.Mu.RLock() // Ensure consistent data during encoding
	defer ii.Mu.RUnlock()

	dataToEncode := gobInvertedIndexData{Entries: ii.terms.Entries()}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder for InvertedIndex.
func (ii *InvertedIndex) GobDecode(data []byte) error {
	decodedData := gobInvertedIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	ii.Mu.Lock() // Ensure exclusive access during decoding
	defer ii.Mu.Unlock()

	ii.terms = radix.New[TermPostings]()
	for _, e := range decodedData.Entries {
		_ = ii.terms.Set(e.Key, e.Value)
	}
	return nil
}
