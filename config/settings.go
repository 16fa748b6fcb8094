// Package config provides the construction-time configuration for a search
// index: declared fields, the injectable extraction/tokenization/term
// processing hooks, default search behavior, and the auto-vacuum policy.
package config

import (
	"strings"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/internal/logging"
	"github.com/gcbaptista/lexidex/internal/tokenizer"
	"github.com/gcbaptista/lexidex/model"
)

// BM25Params carries the injectable BM25+ parameters.
type BM25Params struct {
	K float64 // term-frequency saturation, default 1.2
	B float64 // field-length normalization, default 0.7
	D float64 // lower-bound score floor (the "+" in BM25+), default 0.5
}

// DefaultBM25Params returns the spec's default {k=1.2, b=0.7, d=0.5}.
func DefaultBM25Params() BM25Params {
	return BM25Params{K: 1.2, B: 0.7, D: 0.5}
}

// RankingCriterion is a secondary, deterministic tiebreak applied when two
// hits score equally under BM25+. Absent any criteria, ties break on short
// ID ascending.
type RankingCriterion struct {
	Field string // field name to break ties on; "~score" means BM25+ score itself
	Order string // "asc" or "desc"
}

// CombineMode is how a query's per-term hit sets are combined.
type CombineMode string

const (
	CombineOR     CombineMode = "OR"
	CombineAND    CombineMode = "AND"
	CombineANDNOT CombineMode = "AND_NOT"
)

// FuzzyOption is the search-time fuzzy-matching policy for a single term.
// Exactly one of the constructors below should be used to build one.
type FuzzyOption struct {
	Disabled bool
	Distance int     // used when Fraction == 0
	Fraction float64 // (0,1): fraction of term length, rounded to the nearest integer and capped at MaxFuzzy
	Func     func(term string) int
}

// NoFuzzy disables fuzzy matching entirely.
func NoFuzzy() FuzzyOption { return FuzzyOption{Disabled: true} }

// FuzzyDistance fixes the edit distance regardless of term length.
func FuzzyDistance(d int) FuzzyOption { return FuzzyOption{Distance: d} }

// FuzzyFraction scales the edit distance with term length.
func FuzzyFraction(f float64) FuzzyOption { return FuzzyOption{Fraction: f} }

// PrefixOption decides, per query term, whether it expands as a prefix.
// Index i is the term's position, terms is the full tokenized query.
type PrefixOption func(term string, i int, terms []string) bool

// PrefixAll expands every term as a prefix.
func PrefixAll(string, int, []string) bool { return true }

// PrefixLastOnly expands only the final query term as a prefix, used by
// the auto-suggest default (the trailing term is assumed still being typed).
func PrefixLastOnly(_ string, i int, terms []string) bool { return i == len(terms)-1 }

// SearchOptions controls one search (or auto_suggest) call. Any zero-value
// field falls back to the Options-level default of the same name at
// evaluation time; see search.Engine.
type SearchOptions struct {
	Fields          []string
	Filter          func(stored model.Document) bool
	Boost           map[string]float64
	WeightFuzzy     float64
	WeightPrefix    float64
	BoostDocument   func(id, term string, stored model.Document) float64
	Prefix          PrefixOption
	Fuzzy           FuzzyOption
	MaxFuzzy        int
	CombineWith     CombineMode
	BM25            BM25Params
	RankingCriteria []RankingCriterion
}

// DefaultSearchOptions mirrors the default search behavior: OR combination, prefix and
// fuzzy expansion both off unless the caller opts in, default expansion
// weights and BM25+ parameters.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		WeightFuzzy:  0.45,
		WeightPrefix: 0.375,
		Fuzzy:        NoFuzzy(),
		MaxFuzzy:     6,
		CombineWith:  CombineOR,
		BM25:         DefaultBM25Params(),
	}
}

// DefaultAutoSuggestOptions mirrors auto-suggest's own defaults: AND combination, prefix
// expansion of the last term only.
func DefaultAutoSuggestOptions() SearchOptions {
	opts := DefaultSearchOptions()
	opts.CombineWith = CombineAND
	opts.Prefix = PrefixLastOnly
	return opts
}

// AutoVacuum configures whether and when discard()-driven dirtiness
// triggers an automatic vacuum.
type AutoVacuum struct {
	Enabled        bool
	MinDirtyCount  int
	MinDirtyFactor float64
	BatchSize      int
	BatchWaitMS    int
}

// DefaultAutoVacuum mirrors the standard auto-vacuum thresholds.
func DefaultAutoVacuum() AutoVacuum {
	return AutoVacuum{
		Enabled:        true,
		MinDirtyCount:  20,
		MinDirtyFactor: 0.1,
		BatchSize:      1000,
		BatchWaitMS:    1,
	}
}

// ExtractFieldFunc pulls a field's text value out of a document.
type ExtractFieldFunc func(doc model.Document, field string) (string, bool)

// TokenizeFunc splits a field's text into ordered tokens. fieldName is
// empty when tokenizing a query rather than a stored field.
type TokenizeFunc func(text string, fieldName string) []string

// ProcessTermFunc normalizes a raw token into zero, one, or several terms.
// A nil or empty returned slice means the term is rejected.
type ProcessTermFunc func(term string, fieldName string) []string

// Options is the full construction-time configuration of an index. Fields
// is the only value callers are required to set; every other field has a
// documented default applied by ApplyDefaults.
type Options struct {
	Name        string
	Fields      []string
	IDField     string
	StoreFields []string

	ExtractField ExtractFieldFunc
	Tokenize     TokenizeFunc
	ProcessTerm  ProcessTermFunc

	SearchOptions      SearchOptions
	AutoSuggestOptions SearchOptions
	AutoVacuum         AutoVacuum
	Logger             logging.Logger
}

// ApplyDefaults fills in every unset field with its spec default. Call
// once, after construction, before handing Options to internal/engine.
func (o *Options) ApplyDefaults() {
	if o.IDField == "" {
		o.IDField = "id"
	}
	if o.ExtractField == nil {
		o.ExtractField = defaultExtractField
	}
	if o.Tokenize == nil {
		o.Tokenize = defaultTokenize
	}
	if o.ProcessTerm == nil {
		o.ProcessTerm = defaultProcessTerm
	}
	if isZeroSearchOptions(o.SearchOptions) {
		o.SearchOptions = DefaultSearchOptions()
	}
	if isZeroSearchOptions(o.AutoSuggestOptions) {
		o.AutoSuggestOptions = DefaultAutoSuggestOptions()
	}
	if o.AutoVacuum == (AutoVacuum{}) {
		o.AutoVacuum = DefaultAutoVacuum()
	}
	if o.Logger == nil {
		o.Logger = logging.NewDefault()
	}
}

func isZeroSearchOptions(s SearchOptions) bool {
	return s.CombineWith == "" && s.WeightFuzzy == 0 && s.WeightPrefix == 0
}

func defaultExtractField(doc model.Document, field string) (string, bool) {
	return doc.StringField(field)
}

func defaultTokenize(text string, fieldName string) []string {
	return tokenizer.Tokenize(text, fieldName)
}

func defaultProcessTerm(term string, fieldName string) []string {
	lower := strings.ToLower(strings.TrimSpace(term))
	if lower == "" {
		return nil
	}
	return []string{lower}
}

// Validate checks the construction-time invariant:
// fields must be declared. Returns ErrMissingFields otherwise.
func (o *Options) Validate() error {
	if len(o.Fields) == 0 {
		return lexerrors.ErrMissingFields
	}
	return nil
}

// FieldIndex returns the position of field within Fields, or -1 if it is
// not a declared field.
func (o *Options) FieldIndex(field string) int {
	for i, f := range o.Fields {
		if f == field {
			return i
		}
	}
	return -1
}
