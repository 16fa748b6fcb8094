// Package persistence saves and loads an index's on-disk snapshot: a
// version-tagged gob envelope wrapping the InvertedIndex and DocStore's own
// Gob encodings.
package persistence

import (
	"fmt"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/index"
	"github.com/gcbaptista/lexidex/store"
)

// CurrentVersion is the serialization_version this package writes. Load
// accepts snapshots tagged version 1 or 2 and decodes both with the same
// Snapshot layout; a version-1 file whose document-store fields are nested
// under a "ds" key is not read as such.
const CurrentVersion = 2

// Snapshot is one index's complete persisted state.
type Snapshot struct {
	SerializationVersion int
	Fields               []string
	DirtyCount           int
	Store                *store.DocStore
	Index                *index.InvertedIndex
}

// Save writes snap to path as a single gob-encoded file.
func Save(path string, snap Snapshot) error {
	snap.SerializationVersion = CurrentVersion
	return SaveGob(path, snap)
}

// Load reads a Snapshot from path, rejecting unsupported
// serialization_version values.
func Load(path string) (Snapshot, error) {
	var snap Snapshot
	if err := LoadGob(path, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to load snapshot from %s: %w", path, err)
	}
	if snap.SerializationVersion != 1 && snap.SerializationVersion != CurrentVersion {
		return Snapshot{}, lexerrors.NewIncompatibleSerializationError(snap.SerializationVersion)
	}
	return snap, nil
}
