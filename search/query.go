package search

import "github.com/gcbaptista/lexidex/config"

// Query is either a leaf QueryString or an internal QueryCombination node.
// Both optionally carry search options that override whatever they
// inherited from their parent.
type Query interface {
	isQuery()
}

// QueryString is free text to be tokenized and term-processed at
// evaluation time.
type QueryString struct {
	Text    string
	Options *config.SearchOptions
}

func (QueryString) isQuery() {}

// QueryCombination combines child queries with a boolean operator.
type QueryCombination struct {
	CombineWith config.CombineMode
	Children    []Query
	Options     *config.SearchOptions
}

func (QueryCombination) isQuery() {}

type wildcardQuery struct{}

func (wildcardQuery) isQuery() {}

// Wildcard matches every live document, regardless of content. Typically
// used as the left-hand side of an AND_NOT combination to express "all
// documents except those matching a filter query".
var Wildcard Query = wildcardQuery{}
