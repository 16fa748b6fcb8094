package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/lexidex/config"
	"github.com/gcbaptista/lexidex/search"
)

// SearchRequest is the wire shape of a search call. A zero-valued field
// means "inherit the index's own default" (search.mergeSearchOptions
// applies the same override-over-inherited rule the core uses for nested
// query options).
type SearchRequest struct {
	Query        string   `json:"query"`
	Fields       []string `json:"fields"`
	CombineWith  string   `json:"combine_with"`
	Prefix       bool     `json:"prefix"`
	FuzzyEnabled *bool    `json:"fuzzy_enabled"`
	FuzzyFixed   int      `json:"fuzzy_distance"`
	MaxFuzzy     int      `json:"max_fuzzy"`
	WeightFuzzy  float64  `json:"weight_fuzzy"`
	WeightPrefix float64  `json:"weight_prefix"`
}

// toSearchOptions builds the override layer for a request. A field left at
// its Go zero value is left unset here too, so mergeSearchOptions falls
// back to the index's own default rather than silently overriding it —
// fuzzy_enabled is the one exception, using a pointer so "absent" and
// "explicitly false" are distinguishable.
func (req SearchRequest) toSearchOptions() *config.SearchOptions {
	opts := &config.SearchOptions{
		Fields:       req.Fields,
		MaxFuzzy:     req.MaxFuzzy,
		WeightFuzzy:  req.WeightFuzzy,
		WeightPrefix: req.WeightPrefix,
	}
	if req.CombineWith != "" {
		opts.CombineWith = config.CombineMode(req.CombineWith)
	}
	if req.Prefix {
		opts.Prefix = config.PrefixAll
	}
	if req.FuzzyEnabled != nil {
		if *req.FuzzyEnabled {
			opts.Fuzzy = config.FuzzyDistance(req.FuzzyFixed)
		} else {
			opts.Fuzzy = config.NoFuzzy()
		}
	}
	return opts
}

// SearchHandler runs a free-text query against an index.
func (h *API) SearchHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	idx, err := h.manager.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	result := idx.Search(search.QueryString{Text: req.Query}, req.toSearchOptions())
	c.JSON(http.StatusOK, result)
}

// AutoSuggestHandler runs a query through an index's auto-suggest options.
func (h *API) AutoSuggestHandler(c *gin.Context) {
	indexName := c.Param("indexName")
	idx, err := h.manager.GetIndex(indexName)
	if err != nil {
		SendIndexNotFoundError(c, indexName)
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	suggestions := idx.AutoSuggest(req.Query, req.toSearchOptions())
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
