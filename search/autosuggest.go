package search

import (
	"sort"
	"strings"

	"github.com/gcbaptista/lexidex/config"
)

// Suggestion is one group of auto-suggest hits that matched the same set of
// query terms. Phrase and Terms are those query terms, sorted; they are not
// the longer indexed terms that prefix or fuzzy expansion matched.
type Suggestion struct {
	Phrase string
	Terms  []string
	Score  float64
}

// AutoSuggest runs queryText through the index's AutoSuggestOptions (AND
// combination, last-term-only prefix expansion by default), then groups
// the resulting hits by the set of query terms each one matched, averaging
// scores per phrase (sum divided by hit count) and sorting descending.
func (e *Engine) AutoSuggest(queryText string, callerOpts *config.SearchOptions) []Suggestion {
	root := e.opts.AutoSuggestOptions
	if callerOpts != nil {
		root = mergeSearchOptions(root, *callerOpts)
	}

	candidates := e.evaluateQueryString(queryText, root)

	type bucket struct {
		terms []string
		score float64
		count int
	}
	byPhrase := make(map[string]*bucket)

	for _, c := range candidates {
		if len(c.sourceTerms) == 0 {
			continue
		}
		terms := make([]string, 0, len(c.sourceTerms))
		for t := range c.sourceTerms {
			terms = append(terms, t)
		}
		sort.Strings(terms)
		phrase := strings.Join(terms, " ")

		b, ok := byPhrase[phrase]
		if !ok {
			b = &bucket{terms: terms}
			byPhrase[phrase] = b
		}
		b.score += c.score
		b.count++
	}

	out := make([]Suggestion, 0, len(byPhrase))
	for phrase, b := range byPhrase {
		out = append(out, Suggestion{Phrase: phrase, Terms: b.terms, Score: b.score / float64(b.count)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Phrase < out[j].Phrase
	})

	return out
}
