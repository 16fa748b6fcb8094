package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gcbaptista/lexidex/config"
	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/internal/jobs"
	"github.com/gcbaptista/lexidex/internal/logging"
	"github.com/gcbaptista/lexidex/internal/persistence"
	"github.com/gcbaptista/lexidex/model"
)

const dataDirPerm = 0755

// snapshotFile is the single gob file holding one index's persisted state.
const snapshotFile = "snapshot.gob"

// Manager owns every index in a running process: construction, lookup,
// renaming, deletion, disk persistence, and the background jobs that
// track add_all_async and vacuum.
type Manager struct {
	mu      sync.RWMutex
	indexes map[string]*Index
	dataDir string
	jobs    *jobs.Manager
	logger  logging.Logger
}

// NewManager loads every index found under dataDir and returns a ready
// Manager. maxWorkers bounds concurrent add_all_async/vacuum jobs.
func NewManager(dataDir string, maxWorkers int, logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewDefault()
	}

	m := &Manager{
		indexes: make(map[string]*Index),
		dataDir: dataDir,
		jobs:    jobs.NewManager(maxWorkers, logger),
		logger:  logger,
	}

	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		logger.Log(logging.LevelError, fmt.Sprintf("could not create data directory %s: %v", dataDir, err), "")
	}
	m.loadFromDisk()
	return m
}

func (m *Manager) loadFromDisk() {
	items, err := os.ReadDir(m.dataDir)
	if err != nil {
		return
	}

	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		name := item.Name()
		path := filepath.Join(m.dataDir, name, snapshotFile)

		snap, err := persistence.Load(path)
		if err != nil {
			m.logger.Log(logging.LevelWarn, fmt.Sprintf("skipping index %s: %v", name, err), "")
			continue
		}

		opts := config.Options{Name: name, Fields: snap.Fields}
		opts.ApplyDefaults()
		if err := opts.Validate(); err != nil {
			m.logger.Log(logging.LevelWarn, fmt.Sprintf("skipping index %s: %v", name, err), "")
			continue
		}

		idx := &Index{
			Opts:       &opts,
			idx:        snap.Index,
			docs:       snap.Store,
			dirtyCount: snap.DirtyCount,
		}
		idx.engine = newSearchEngine(idx)
		m.indexes[name] = idx
	}
}

// CreateIndex constructs and registers a new, empty index.
func (m *Manager) CreateIndex(opts config.Options) (*Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if opts.Name == "" {
		return nil, lexerrors.NewValidationError("name", "index name must not be empty")
	}
	if _, exists := m.indexes[opts.Name]; exists {
		return nil, lexerrors.NewIndexAlreadyExistsError(opts.Name)
	}

	idx, err := New(opts)
	if err != nil {
		return nil, err
	}

	m.indexes[opts.Name] = idx
	if err := m.persistLocked(opts.Name); err != nil {
		delete(m.indexes, opts.Name)
		return nil, err
	}
	return idx, nil
}

// GetIndex returns the named index, or IndexNotFoundError.
func (m *Manager) GetIndex(name string) (*Index, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	idx, exists := m.indexes[name]
	if !exists {
		return nil, lexerrors.NewIndexNotFoundError(name)
	}
	return idx, nil
}

// ListIndexes returns every registered index's name.
func (m *Manager) ListIndexes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.indexes))
	for name := range m.indexes {
		names = append(names, name)
	}
	return names
}

// DeleteIndex drops name from memory and disk.
func (m *Manager) DeleteIndex(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.indexes[name]; !exists {
		return lexerrors.NewIndexNotFoundError(name)
	}
	delete(m.indexes, name)

	path := filepath.Join(m.dataDir, name)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete index data directory %s: %w", path, err)
	}
	return nil
}

// RenameIndex moves oldName's data directory to newName and updates the
// in-memory registry to match.
func (m *Manager) RenameIndex(oldName, newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldName == newName {
		return lexerrors.NewSameNameError(newName)
	}
	idx, exists := m.indexes[oldName]
	if !exists {
		return lexerrors.NewIndexNotFoundError(oldName)
	}
	if _, exists := m.indexes[newName]; exists {
		return lexerrors.NewIndexAlreadyExistsError(newName)
	}

	oldPath := filepath.Join(m.dataDir, oldName)
	newPath := filepath.Join(m.dataDir, newName)
	if _, err := os.Stat(oldPath); err == nil {
		if err := os.Rename(oldPath, newPath); err != nil {
			return fmt.Errorf("failed to rename index directory from %s to %s: %w", oldPath, newPath, err)
		}
	}

	idx.Opts.Name = newName
	m.indexes[newName] = idx
	delete(m.indexes, oldName)
	return nil
}

// Persist writes name's current state to disk.
func (m *Manager) Persist(name string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.persistLocked(name)
}

func (m *Manager) persistLocked(name string) error {
	idx, exists := m.indexes[name]
	if !exists {
		return lexerrors.NewIndexNotFoundError(name)
	}

	dir := filepath.Join(m.dataDir, name)
	if err := os.MkdirAll(dir, dataDirPerm); err != nil {
		return fmt.Errorf("failed to create index directory %s: %w", dir, err)
	}

	snap := persistence.Snapshot{
		Fields:     idx.Opts.Fields,
		DirtyCount: idx.DirtyCount(),
		Store:      idx.docs,
		Index:      idx.idx,
	}
	return persistence.Save(filepath.Join(dir, snapshotFile), snap)
}

// Jobs exposes the background job tracker for add_all_async/vacuum status.
func (m *Manager) Jobs() *jobs.Manager { return m.jobs }

// Stop shuts down the background job manager.
func (m *Manager) Stop() { m.jobs.Stop() }

// AddAllAsyncJob starts a tracked background job that indexes docs into
// name in small, yielding batches and returns the job's ID immediately.
func (m *Manager) AddAllAsyncJob(name string, docs []model.Document) (string, error) {
	idx, err := m.GetIndex(name)
	if err != nil {
		return "", err
	}

	jobID := m.jobs.CreateJob(model.JobTypeAddAllAsync, name, map[string]string{"document_count": fmt.Sprintf("%d", len(docs))})
	err = m.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return idx.AddAllAsync(ctx, docs, func(current, total int) {
			m.jobs.UpdateJobProgress(jobID, current, total, "")
		})
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

// VacuumJob starts a tracked background job that vacuums name, even if an
// auto-vacuum is already running (it queues as a forced follow-up).
func (m *Manager) VacuumJob(name string) (string, error) {
	idx, err := m.GetIndex(name)
	if err != nil {
		return "", err
	}

	jobID := m.jobs.CreateJob(model.JobTypeVacuum, name, nil)
	err = m.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return idx.Vacuum(ctx)
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}
