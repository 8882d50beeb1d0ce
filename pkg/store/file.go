package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/bundlescope/pkg/errors"
	"github.com/matzehuels/bundlescope/pkg/report"
)

// FileStore is a file-based snapshot store for CLI use.
// Snapshots are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based snapshot store.
// If baseDir is empty, defaults to ~/.config/bundlescope/snapshots/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "bundlescope", "snapshots")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) snapshotPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(_ context.Context, r *report.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(r)
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(s.snapshotPath(r.ID), data, 0o600); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "write snapshot")
	}
	return r.ID, nil
}

func (s *FileStore) Get(_ context.Context, id string) (*report.Report, error) {
	if err := errors.ValidateBundlePath(id); err != nil || filepath.Base(id) != id {
		return nil, notFound(id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.snapshotPath(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read snapshot")
	}
	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse snapshot %s", id)
	}
	return &r, nil
}

func (s *FileStore) List(_ context.Context, opts ListOptions) ([]*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read snapshot dir")
	}
	var all []*report.Report
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var r report.Report
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		all = append(all, &r)
	}
	return selectSummaries(all, opts), nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for snapshot files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
