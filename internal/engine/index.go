// Package engine implements the add/remove/discard/replace/vacuum lifecycle
// over one search index: wiring config.Options, index.InvertedIndex,
// store.DocStore, and search.Engine together, and the auto-vacuum policy
// that schedules space reclamation as documents are discarded.
package engine

import (
	"sync"

	"github.com/gcbaptista/lexidex/config"
	"github.com/gcbaptista/lexidex/index"
	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/internal/logging"
	"github.com/gcbaptista/lexidex/model"
	"github.com/gcbaptista/lexidex/search"
	"github.com/gcbaptista/lexidex/store"
)

// Index owns one search index's complete lifecycle: construction,
// document mutation, querying, and vacuuming.
type Index struct {
	Opts   *config.Options
	idx    *index.InvertedIndex
	docs   *store.DocStore
	engine *search.Engine

	vacuumMu       sync.Mutex
	dirtyCount     int
	vacuumInFlight bool
	pendingVacuum  *vacuumRequest
}

// New validates opts, fills in its defaults, and returns an empty Index.
func New(opts config.Options) (*Index, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	o := opts
	ix := &Index{
		Opts: &o,
		idx:  index.New(),
		docs: store.New(len(opts.Fields)),
	}
	ix.engine = newSearchEngine(ix)
	return ix, nil
}

// newSearchEngine builds the search.Engine wired to ix's own index/store,
// used both by New and by the disk-loading path in Manager.
func newSearchEngine(ix *Index) *search.Engine {
	return search.NewEngine(ix.idx, ix.docs, ix.Opts)
}

// processField tokenizes text for fieldName and returns the unique raw
// token count (L) alongside the terms produced by running each token
// through process_term, which may reject a token or expand it to several
// terms.
func (ix *Index) processField(text, fieldName string) (length int, terms []string) {
	tokens := ix.Opts.Tokenize(text, fieldName)

	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	length = len(seen)

	for _, t := range tokens {
		terms = append(terms, ix.Opts.ProcessTerm(t, fieldName)...)
	}
	return length, terms
}

// Add indexes a new document.
func (ix *Index) Add(doc model.Document) error {
	extID, ok := doc.ExternalID(ix.Opts.IDField)
	if !ok {
		return lexerrors.NewMissingIDError(ix.Opts.IDField)
	}

	shortID, err := ix.docs.Allocate(extID)
	if err != nil {
		return err
	}

	stored := make(model.Document, len(ix.Opts.StoreFields)+1)
	stored[ix.Opts.IDField] = extID
	for _, f := range ix.Opts.StoreFields {
		if v, ok := doc[f]; ok {
			stored[f] = v
		}
	}
	ix.docs.SetStoredFields(shortID, stored)

	for fieldID, fieldName := range ix.Opts.Fields {
		text, ok := ix.Opts.ExtractField(doc, fieldName)
		if !ok {
			continue
		}
		length, terms := ix.processField(text, fieldName)
		ix.docs.SetFieldLength(shortID, fieldID, length)
		for _, term := range terms {
			ix.idx.AddOccurrence(term, fieldID, shortID)
		}
	}

	return nil
}

// Remove deletes a previously added document's postings and mappings.
// The caller warrants that extraction/tokenization/processing
// deterministically reproduces the same terms Add produced; a term
// missing where expected is logged as a version_conflict warning rather
// than failing the call.
func (ix *Index) Remove(doc model.Document) error {
	extID, ok := doc.ExternalID(ix.Opts.IDField)
	if !ok {
		return lexerrors.NewMissingIDError(ix.Opts.IDField)
	}

	shortID, ok := ix.docs.ShortID(extID)
	if !ok {
		return lexerrors.NewNotIndexedError(extID)
	}

	for fieldID, fieldName := range ix.Opts.Fields {
		text, ok := ix.Opts.ExtractField(doc, fieldName)
		if !ok {
			continue
		}
		_, terms := ix.processField(text, fieldName)
		removed := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			if _, done := removed[term]; done {
				continue
			}
			removed[term] = struct{}{}
			if !ix.idx.RemoveOccurrence(term, fieldID, shortID) {
				logging.VersionConflict(ix.Opts.Logger, "remove: term not present at expected (field, short_id)")
			}
		}
	}

	_, err := ix.docs.Discard(extID)
	return err
}

// Discard drops id's mappings, stored fields, and field lengths, leaving
// its postings for a later vacuum pass, then considers triggering an
// automatic vacuum.
func (ix *Index) Discard(externalID string) error {
	if _, err := ix.docs.Discard(externalID); err != nil {
		return err
	}

	ix.vacuumMu.Lock()
	ix.dirtyCount++
	ix.vacuumMu.Unlock()

	ix.maybeAutoVacuum()
	return nil
}

// Replace discards id then re-adds document.
func (ix *Index) Replace(externalID string, doc model.Document) error {
	if err := ix.Discard(externalID); err != nil {
		return err
	}
	return ix.Add(doc)
}

// Search runs q against the index, with callerOpts (if non-nil) overriding
// the index's own SearchOptions.
func (ix *Index) Search(q search.Query, callerOpts *config.SearchOptions) search.Result {
	return ix.engine.Search(q, callerOpts)
}

// AutoSuggest runs queryText through the index's AutoSuggestOptions.
func (ix *Index) AutoSuggest(queryText string, callerOpts *config.SearchOptions) []search.Suggestion {
	return ix.engine.AutoSuggest(queryText, callerOpts)
}

// DocumentsCount returns the number of live documents.
func (ix *Index) DocumentsCount() int { return ix.docs.DocumentsCount() }

// DirtyCount returns the number of discard()s not yet reclaimed by a vacuum.
func (ix *Index) DirtyCount() int {
	ix.vacuumMu.Lock()
	defer ix.vacuumMu.Unlock()
	return ix.dirtyCount
}
