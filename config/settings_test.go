package config

import (
	"testing"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaultsFillsEveryField(t *testing.T) {
	opts := Options{Fields: []string{"title", "body"}}
	opts.ApplyDefaults()

	assert.Equal(t, "id", opts.IDField)
	require.NotNil(t, opts.ExtractField)
	require.NotNil(t, opts.Tokenize)
	require.NotNil(t, opts.ProcessTerm)
	assert.Equal(t, CombineOR, opts.SearchOptions.CombineWith)
	assert.Equal(t, CombineAND, opts.AutoSuggestOptions.CombineWith)
	assert.Equal(t, DefaultAutoVacuum(), opts.AutoVacuum)
	require.NotNil(t, opts.Logger)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	opts := Options{
		Fields:  []string{"title"},
		IDField: "sku",
		AutoVacuum: AutoVacuum{
			Enabled:       false,
			MinDirtyCount: 5,
		},
	}
	opts.ApplyDefaults()

	assert.Equal(t, "sku", opts.IDField)
	assert.False(t, opts.AutoVacuum.Enabled)
	assert.Equal(t, 5, opts.AutoVacuum.MinDirtyCount)
}

func TestValidateRequiresFields(t *testing.T) {
	tests := []struct {
		name    string
		fields  []string
		wantErr bool
	}{
		{name: "no fields", fields: nil, wantErr: true},
		{name: "empty fields", fields: []string{}, wantErr: true},
		{name: "one field", fields: []string{"title"}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{Fields: tt.fields}
			err := opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, lexerrors.ErrMissingFields)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFieldIndex(t *testing.T) {
	opts := Options{Fields: []string{"title", "body", "tags"}}
	assert.Equal(t, 0, opts.FieldIndex("title"))
	assert.Equal(t, 2, opts.FieldIndex("tags"))
	assert.Equal(t, -1, opts.FieldIndex("missing"))
}

func TestDefaultExtractFieldCoercesStringSlices(t *testing.T) {
	result, ok := defaultExtractField(map[string]interface{}{"tags": []string{"a", "b"}}, "tags")
	require.True(t, ok)
	assert.Equal(t, "a b", result)
}

func TestDefaultProcessTermLowercasesAndTrims(t *testing.T) {
	assert.Equal(t, []string{"hello"}, defaultProcessTerm("  HELLO  ", "title"))
	assert.Nil(t, defaultProcessTerm("   ", "title"))
}
