package persistence

import (
	"path/filepath"
	"testing"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/index"
	"github.com/gcbaptista/lexidex/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.gob")

	idx := index.New()
	idx.AddOccurrence("fox", 0, 1)

	docs := store.New(1)
	shortID, err := docs.Allocate("doc-1")
	require.NoError(t, err)
	docs.SetFieldLength(shortID, 0, 3)

	err = Save(path, Snapshot{Fields: []string{"title"}, DirtyCount: 0, Store: docs, Index: idx})
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, loaded.SerializationVersion)
	assert.Equal(t, []string{"title"}, loaded.Fields)

	postings, ok := loaded.Index.Exact("fox")
	require.True(t, ok)
	assert.Equal(t, 1, postings[0][1])

	extID, ok := loaded.Store.ExternalID(shortID)
	require.True(t, ok)
	assert.Equal(t, "doc-1", extID)
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.gob")

	err := SaveGob(path, Snapshot{SerializationVersion: 99, Index: index.New(), Store: store.New(0)})
	require.NoError(t, err)

	_, err = Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, lexerrors.ErrIncompatibleSerialization)
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.gob"))
	assert.Error(t, err)
}
