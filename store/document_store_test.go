package store

import (
	"testing"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateAssignsMonotonicShortIDs(t *testing.T) {
	ds := New(2)

	id1, err := ds.Allocate("doc-1")
	require.NoError(t, err)
	id2, err := ds.Allocate("doc-2")
	require.NoError(t, err)

	assert.Equal(t, uint32(0), id1)
	assert.Equal(t, uint32(1), id2)
	assert.Equal(t, uint32(2), ds.NextShortID())
}

func TestAllocateDuplicateExternalID(t *testing.T) {
	ds := New(1)
	_, err := ds.Allocate("doc-1")
	require.NoError(t, err)

	_, err = ds.Allocate("doc-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, lexerrors.ErrDuplicateID)
}

func TestShortIDAndExternalIDRoundTrip(t *testing.T) {
	ds := New(1)
	id, err := ds.Allocate("doc-1")
	require.NoError(t, err)

	got, ok := ds.ShortID("doc-1")
	require.True(t, ok)
	assert.Equal(t, id, got)

	ext, ok := ds.ExternalID(id)
	require.True(t, ok)
	assert.Equal(t, "doc-1", ext)
}

func TestAvgFieldLengthIsRunningMean(t *testing.T) {
	ds := New(1)
	id1, _ := ds.Allocate("a")
	id2, _ := ds.Allocate("b")

	ds.SetFieldLength(id1, 0, 4)
	ds.SetFieldLength(id2, 0, 6)

	assert.Equal(t, 5.0, ds.AvgFieldLength(0))
}

func TestDiscardRemovesMappingsAndFoldsOutOfAverage(t *testing.T) {
	ds := New(1)
	id1, _ := ds.Allocate("a")
	id2, _ := ds.Allocate("b")
	ds.SetFieldLength(id1, 0, 4)
	ds.SetFieldLength(id2, 0, 6)

	discarded, err := ds.Discard("a")
	require.NoError(t, err)
	assert.Equal(t, id1, discarded)

	assert.False(t, ds.IsLive(id1))
	assert.Equal(t, 1, ds.DocumentsCount())
	assert.Equal(t, 6.0, ds.AvgFieldLength(0))
	assert.Equal(t, 0, ds.FieldLength(id1, 0))
}

func TestDiscardUnknownExternalID(t *testing.T) {
	ds := New(1)
	_, err := ds.Discard("missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, lexerrors.ErrNotIndexed)
}

func TestStoredFieldsRoundTrip(t *testing.T) {
	ds := New(1)
	id, _ := ds.Allocate("a")
	ds.SetStoredFields(id, model.Document{"title": "hello"})

	fields, ok := ds.StoredFields(id)
	require.True(t, ok)
	assert.Equal(t, "hello", fields["title"])
}

func TestGobRoundTrip(t *testing.T) {
	ds := New(1)
	id, _ := ds.Allocate("a")
	ds.SetFieldLength(id, 0, 3)
	ds.SetStoredFields(id, model.Document{"title": "hello"})

	data, err := ds.GobEncode()
	require.NoError(t, err)

	decoded := New(1)
	require.NoError(t, decoded.GobDecode(data))

	ext, ok := decoded.ExternalID(id)
	require.True(t, ok)
	assert.Equal(t, "a", ext)
	assert.Equal(t, 3, decoded.FieldLength(id, 0))
	fields, ok := decoded.StoredFields(id)
	require.True(t, ok)
	assert.Equal(t, "hello", fields["title"])
}
