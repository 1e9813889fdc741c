// Package snapshot persists the punishment store as a single JSON file,
// replaced atomically on every save.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fpibot/internal/models"
)

// File stores the snapshot at a fixed path. Saves write to a temporary file
// in the same directory and rename it over the target, so a crashed write
// never leaves a half-written snapshot behind.
type File struct {
	path string
}

// NewFile creates a file-backed snapshot store at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the snapshot from disk. A missing file is not an error: it
// yields an empty snapshot, matching a first run.
func (f *File) Load(ctx context.Context) (models.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.EmptySnapshot(), nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read snapshot %s: %w", f.path, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to parse snapshot %s: %w", f.path, err)
	}
	if snap.Bans == nil {
		snap.Bans = []models.Punishment{}
	}
	if snap.Mutes == nil {
		snap.Mutes = []models.Punishment{}
	}
	if snap.Warns == nil {
		snap.Warns = []models.Punishment{}
	}
	return snap, nil
}

// Save writes the whole snapshot atomically.
func (f *File) Save(ctx context.Context, snap models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot %s: %w", f.path, err)
	}
	return nil
}
