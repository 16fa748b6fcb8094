package search

import (
	"testing"

	"github.com/gcbaptista/lexidex/config"
	"github.com/gcbaptista/lexidex/index"
	"github.com/gcbaptista/lexidex/model"
	"github.com/gcbaptista/lexidex/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFixture builds a tiny two-field, three-document index: "title" and
// "body", with "red fox" / "red panda" / "blue whale" as titles.
func testFixture(t *testing.T) (*index.InvertedIndex, *store.DocStore, *config.Options) {
	t.Helper()

	opts := &config.Options{
		Name:        "animals",
		Fields:      []string{"title", "body"},
		IDField:     "id",
		StoreFields: []string{"title", "body"},
	}
	opts.ApplyDefaults()

	idx := index.New()
	docs := store.New(len(opts.Fields))

	add := func(extID, title, body string) {
		shortID, err := docs.Allocate(extID)
		require.NoError(t, err)

		for fieldID, text := range map[int]string{0: title, 1: body} {
			terms := opts.Tokenize(text, opts.Fields[fieldID])
			processed := make([]string, 0, len(terms))
			for _, raw := range terms {
				processed = append(processed, opts.ProcessTerm(raw, opts.Fields[fieldID])...)
			}
			docs.SetFieldLength(shortID, fieldID, len(processed))
			for _, term := range processed {
				idx.AddOccurrence(term, fieldID, shortID)
			}
		}

		docs.SetStoredFields(shortID, model.Document{
			"id":    extID,
			"title": title,
			"body":  body,
		})
	}

	add("1", "red fox", "a quick red fox runs")
	add("2", "red panda", "a sleepy red panda climbs")
	add("3", "blue whale", "a vast blue whale swims")

	return idx, docs, opts
}

func TestSearchExactMatchReturnsEveryDocumentWithTerm(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	result := e.Search(QueryString{Text: "red"}, nil)

	require.Len(t, result.Hits, 2)
	ids := []string{result.Hits[0].Document["id"].(string), result.Hits[1].Document["id"].(string)}
	assert.ElementsMatch(t, []string{"1", "2"}, ids)
	assert.NotEmpty(t, result.QueryID)
}

func TestSearchNoMatchesReturnsEmpty(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	result := e.Search(QueryString{Text: "zzz"}, nil)
	assert.Empty(t, result.Hits)
}

func TestSearchPrefixExpansionFindsLongerTerms(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	override := config.DefaultSearchOptions()
	override.Prefix = config.PrefixAll
	result := e.Search(QueryString{Text: "pan", Options: &override}, nil)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "2", result.Hits[0].Document["id"])
}

func TestSearchFuzzyExpansionToleratesTypos(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	override := config.DefaultSearchOptions()
	override.Fuzzy = config.FuzzyDistance(1)
	result := e.Search(QueryString{Text: "fox", Options: &override}, nil)
	require.NotEmpty(t, result.Hits)

	override.Fuzzy = config.FuzzyDistance(1)
	result = e.Search(QueryString{Text: "fux", Options: &override}, nil)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "1", result.Hits[0].Document["id"])
}

func TestSearchAndNotExcludesMatches(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	q := QueryCombination{
		CombineWith: config.CombineANDNOT,
		Children: []Query{
			QueryString{Text: "red"},
			QueryString{Text: "panda"},
		},
	}
	result := e.Search(q, nil)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "1", result.Hits[0].Document["id"])
}

func TestSearchAndRequiresAllChildren(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	q := QueryCombination{
		CombineWith: config.CombineAND,
		Children: []Query{
			QueryString{Text: "red"},
			QueryString{Text: "fox"},
		},
	}
	result := e.Search(q, nil)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "1", result.Hits[0].Document["id"])
}

func TestSearchWildcardMatchesEveryLiveDocument(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	result := e.Search(Wildcard, nil)
	assert.Len(t, result.Hits, 3)
}

func TestSearchFilterExcludesDocuments(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	override := config.DefaultSearchOptions()
	override.Filter = func(d model.Document) bool {
		return d["id"] != "2"
	}
	result := e.Search(QueryString{Text: "red", Options: &override}, nil)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "1", result.Hits[0].Document["id"])
}

func TestSearchCallerOptionsOverrideIndexDefaults(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	callerOpts := config.DefaultSearchOptions()
	callerOpts.Fields = []string{"body"}
	result := e.Search(QueryString{Text: "climbs"}, &callerOpts)

	require.Len(t, result.Hits, 1)
	assert.Equal(t, "2", result.Hits[0].Document["id"])
}

func TestSearchDiscardedDocumentIsExcluded(t *testing.T) {
	idx, docs, opts := testFixture(t)
	e := NewEngine(idx, docs, opts)

	_, err := docs.Discard("2")
	require.NoError(t, err)

	result := e.Search(QueryString{Text: "red"}, nil)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "1", result.Hits[0].Document["id"])
}

func TestMergeSearchOptionsOverridesOnlySetFields(t *testing.T) {
	base := config.DefaultSearchOptions()
	override := config.SearchOptions{WeightFuzzy: 0.9}

	merged := mergeSearchOptions(base, override)

	assert.Equal(t, 0.9, merged.WeightFuzzy)
	assert.Equal(t, base.WeightPrefix, merged.WeightPrefix)
	assert.Equal(t, base.CombineWith, merged.CombineWith)
}
