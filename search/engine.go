package search

import (
	"math"
	"sort"
	"time"

	"github.com/gcbaptista/lexidex/config"
	"github.com/gcbaptista/lexidex/index"
	"github.com/gcbaptista/lexidex/model"
	"github.com/gcbaptista/lexidex/store"
	"github.com/google/uuid"
)

// Engine evaluates query trees against an InvertedIndex and DocStore,
// producing ranked, filtered results.
type Engine struct {
	idx    *index.InvertedIndex
	docs   *store.DocStore
	opts   *config.Options
	scorer *Scorer
}

// NewEngine builds a query Engine over an index's InvertedIndex, DocStore
// and construction-time Options.
func NewEngine(idx *index.InvertedIndex, docs *store.DocStore, opts *config.Options) *Engine {
	return &Engine{idx: idx, docs: docs, opts: opts, scorer: NewScorer(idx, docs)}
}

// Hit is a single ranked, finalized search result.
type Hit struct {
	Document      model.Document
	Score         float64
	MatchedFields map[string][]string
}

// Result is the outcome of a Search call.
type Result struct {
	Hits    []Hit
	Total   int
	Took    time.Duration
	QueryID string
}

// Search evaluates q, using callerOpts (if non-nil) as the outermost layer
// of defaults over the index's own SearchOptions.
func (e *Engine) Search(q Query, callerOpts *config.SearchOptions) Result {
	start := time.Now()

	root := e.opts.SearchOptions
	if callerOpts != nil {
		root = mergeSearchOptions(root, *callerOpts)
	}

	candidates := e.evaluate(q, root)
	hits := e.finalize(candidates, root)

	return Result{
		Hits:    hits,
		Total:   len(hits),
		Took:    time.Since(start),
		QueryID: uuid.NewString(),
	}
}

// evaluate walks the query tree, merging each node's own options into what
// it inherited before evaluating itself or its children.
func (e *Engine) evaluate(q Query, inherited config.SearchOptions) map[uint32]*candidate {
	switch v := q.(type) {
	case QueryString:
		opts := inherited
		if v.Options != nil {
			opts = mergeSearchOptions(inherited, *v.Options)
		}
		return e.evaluateQueryString(v.Text, opts)

	case QueryCombination:
		opts := inherited
		if v.Options != nil {
			opts = mergeSearchOptions(inherited, *v.Options)
		}
		if len(v.Children) == 0 {
			return map[uint32]*candidate{}
		}
		acc := e.evaluate(v.Children[0], opts)
		for _, child := range v.Children[1:] {
			acc = combine(acc, e.evaluate(child, opts), v.CombineWith)
		}
		return acc

	case wildcardQuery:
		return e.evaluateWildcard()

	default:
		return map[uint32]*candidate{}
	}
}

func (e *Engine) evaluateWildcard() map[uint32]*candidate {
	out := make(map[uint32]*candidate)
	for _, term := range e.idx.Terms() {
		postings, _ := e.idx.Exact(term)
		for _, field := range postings {
			for shortID := range field {
				if _, ok := out[shortID]; !ok && e.docs.IsLive(shortID) {
					out[shortID] = newCandidate()
				}
			}
		}
	}
	return out
}

// evaluateQueryString tokenizes and term-processes text, expands each
// resulting term (exact/prefix/fuzzy), and combines the per-term candidate
// maps with opts.CombineWith.
func (e *Engine) evaluateQueryString(text string, opts config.SearchOptions) map[uint32]*candidate {
	raw := e.opts.Tokenize(text, "")
	terms := make([]string, 0, len(raw))
	for _, r := range raw {
		terms = append(terms, e.opts.ProcessTerm(r, "")...)
	}

	if len(terms) == 0 {
		return map[uint32]*candidate{}
	}

	perTerm := make([]map[uint32]*candidate, len(terms))
	for i, term := range terms {
		perTerm[i] = e.expandAndScoreTerm(term, i, terms, opts)
	}

	acc := perTerm[0]
	for _, c := range perTerm[1:] {
		acc = combine(acc, c, opts.CombineWith)
	}
	return acc
}

// expandAndScoreTerm produces the exact/prefix/fuzzy expansions of one
// query term and scores every posting they touch, merging all three
// expansions with OR.
func (e *Engine) expandAndScoreTerm(term string, i int, terms []string, opts config.SearchOptions) map[uint32]*candidate {
	out := make(map[uint32]*candidate)
	seen := map[string]bool{term: true}

	if exact, ok := e.idx.Exact(term); ok {
		e.accumulate(out, term, term, 1.0, exact, opts)
	}

	if opts.Prefix != nil && opts.Prefix(term, i, terms) {
		for t, postings := range e.idx.Prefix(term) {
			if t == term {
				continue
			}
			seen[t] = true
			weight := opts.WeightPrefix * float64(len(t)) / (float64(len(t)) + 0.3*float64(len(t)-len(term)))
			e.accumulate(out, term, t, weight, postings, opts)
		}
	}

	if !opts.Fuzzy.Disabled {
		maxDist := fuzzyDistance(opts.Fuzzy, term, opts.MaxFuzzy)
		if maxDist > 0 {
			for t, match := range e.idx.Fuzzy(term, maxDist) {
				if seen[t] || match.Distance == 0 {
					continue
				}
				weight := opts.WeightFuzzy * float64(len(t)) / (float64(len(t)) + float64(match.Distance))
				e.accumulate(out, term, t, weight, match.Value, opts)
			}
		}
	}

	return out
}

func fuzzyDistance(f config.FuzzyOption, term string, maxFuzzy int) int {
	if f.Func != nil {
		d := f.Func(term)
		if d > maxFuzzy {
			d = maxFuzzy
		}
		return d
	}
	if f.Fraction > 0 {
		d := int(math.Round(float64(len(term)) * f.Fraction))
		if d > maxFuzzy {
			d = maxFuzzy
		}
		return d
	}
	return f.Distance
}

// accumulate scores every posting of matchedTerm across the fields opts
// requests, folding the per-(term,field) weight and boosts into each
// document's running candidate.
func (e *Engine) accumulate(out map[uint32]*candidate, queryTerm, matchedTerm string, weight float64, postings index.TermPostings, opts config.SearchOptions) {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = e.opts.Fields
	}

	for _, fieldName := range fields {
		fieldID := e.opts.FieldIndex(fieldName)
		if fieldID < 0 {
			continue
		}
		fieldPostings, ok := postings[fieldID]
		if !ok {
			continue
		}
		for shortID, tf := range fieldPostings {
			if !e.docs.IsLive(shortID) {
				e.idx.RemoveOccurrence(matchedTerm, fieldID, shortID)
				continue
			}

			score := e.scorer.Score(matchedTerm, fieldID, shortID, tf, opts.BM25) * weight
			if boost, ok := opts.Boost[fieldName]; ok {
				score *= boost
			}
			if opts.BoostDocument != nil {
				extID, _ := e.docs.ExternalID(shortID)
				stored, _ := e.docs.StoredFields(shortID)
				factor := opts.BoostDocument(extID, queryTerm, stored)
				if factor <= 0 {
					continue
				}
				score *= factor
			}

			c, ok := out[shortID]
			if !ok {
				c = newCandidate()
				out[shortID] = c
			}
			c.addTermMatch(fieldName, queryTerm, score)
		}
	}
}

// finalize attaches stored fields, applies the caller filter, and sorts
// by score (multiplied by the count of distinct matched source terms)
// descending, breaking ties deterministically.
func (e *Engine) finalize(candidates map[uint32]*candidate, opts config.SearchOptions) []Hit {
	type scoredDoc struct {
		shortID    uint32
		c          *candidate
		stored     model.Document
		finalScore float64
	}

	docs := make([]scoredDoc, 0, len(candidates))
	for id, c := range candidates {
		stored, _ := e.docs.StoredFields(id)
		if opts.Filter != nil && !opts.Filter(stored) {
			continue
		}
		multiplier := len(c.sourceTerms)
		if multiplier == 0 {
			multiplier = 1
		}
		docs = append(docs, scoredDoc{
			shortID:    id,
			c:          c,
			stored:     stored,
			finalScore: c.score * float64(multiplier),
		})
	}

	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.finalScore != b.finalScore {
			return a.finalScore > b.finalScore
		}
		for _, crit := range opts.RankingCriteria {
			cmp := compareByCriterion(a.stored, b.stored, crit)
			if cmp != 0 {
				return cmp < 0
			}
		}
		return a.shortID < b.shortID
	})

	hits := make([]Hit, len(docs))
	for i, d := range docs {
		hits[i] = Hit{
			Document:      d.stored,
			Score:         d.finalScore,
			MatchedFields: flattenMatchedFields(d.c.matchedFields),
		}
	}
	return hits
}

func flattenMatchedFields(m map[string]map[string]struct{}) map[string][]string {
	out := make(map[string][]string, len(m))
	for field, terms := range m {
		list := make([]string, 0, len(terms))
		for t := range terms {
			list = append(list, t)
		}
		sort.Strings(list)
		out[field] = list
	}
	return out
}

// compareByCriterion returns <0 if a sorts before b under crit, >0 if
// after, 0 if the criterion doesn't distinguish them (field missing,
// incomparable types, or criterion names the score itself).
func compareByCriterion(a, b model.Document, crit config.RankingCriterion) int {
	if crit.Field == "~score" {
		return 0
	}
	av, aok := a[crit.Field]
	bv, bok := b[crit.Field]
	if !aok || !bok {
		return 0
	}
	cmp := compareValues(av, bv)
	if crit.Order == "desc" {
		cmp = -cmp
	}
	return cmp
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	case string:
		if bv, ok := b.(string); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			default:
				return 0
			}
		}
	}
	return 0
}

// mergeSearchOptions overlays override onto base, field by field. A field
// on override counts as "set" when it differs from its Go zero value;
// this is the practical reading of "overridden by the
// subquery's own options" given Go has no notion of an absent struct
// field short of using pointers for every single one.
func mergeSearchOptions(base, override config.SearchOptions) config.SearchOptions {
	merged := base
	if override.Fields != nil {
		merged.Fields = override.Fields
	}
	if override.Filter != nil {
		merged.Filter = override.Filter
	}
	if override.Boost != nil {
		merged.Boost = override.Boost
	}
	if override.WeightFuzzy != 0 {
		merged.WeightFuzzy = override.WeightFuzzy
	}
	if override.WeightPrefix != 0 {
		merged.WeightPrefix = override.WeightPrefix
	}
	if override.BoostDocument != nil {
		merged.BoostDocument = override.BoostDocument
	}
	if override.Prefix != nil {
		merged.Prefix = override.Prefix
	}
	if !isZeroFuzzyOption(override.Fuzzy) {
		merged.Fuzzy = override.Fuzzy
	}
	if override.MaxFuzzy != 0 {
		merged.MaxFuzzy = override.MaxFuzzy
	}
	if override.CombineWith != "" {
		merged.CombineWith = override.CombineWith
	}
	if override.BM25 != (config.BM25Params{}) {
		merged.BM25 = override.BM25
	}
	if override.RankingCriteria != nil {
		merged.RankingCriteria = override.RankingCriteria
	}
	return merged
}

func isZeroFuzzyOption(f config.FuzzyOption) bool {
	return !f.Disabled && f.Distance == 0 && f.Fraction == 0 && f.Func == nil
}
