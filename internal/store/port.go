package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GustavoTessaro/myplaylist/internal/models"
)

// FilePort persists the playlist collection as one JSON file holding the full
// array, the durable-storage layout the application has always used.
//
// Save writes to a temporary file in the same directory and renames it into
// place, so a crash mid-write never corrupts the previous snapshot.
type FilePort struct {
	path string
}

// NewFilePort creates a FilePort writing to the given path.
func NewFilePort(path string) *FilePort {
	return &FilePort{path: path}
}

// Load reads the snapshot; a missing file is an empty collection, not an error.
func (p *FilePort) Load() ([]models.Playlist, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return []models.Playlist{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var playlists []models.Playlist
	if err := json.Unmarshal(data, &playlists); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}

	return playlists, nil
}

// Save writes the complete collection atomically.
func (p *FilePort) Save(playlists []models.Playlist) error {
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	data, err := json.Marshal(playlists)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".playlists-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), p.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

// MemoryPort is an in-memory Port for tests and ephemeral runs.
type MemoryPort struct {
	snapshot []models.Playlist
}

// NewMemoryPort creates an empty MemoryPort.
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{snapshot: []models.Playlist{}}
}

// Load returns a copy of the last saved snapshot.
func (p *MemoryPort) Load() ([]models.Playlist, error) {
	return copySnapshot(p.snapshot), nil
}

// Save retains a copy of the collection.
func (p *MemoryPort) Save(playlists []models.Playlist) error {
	p.snapshot = copySnapshot(playlists)
	return nil
}

func copySnapshot(playlists []models.Playlist) []models.Playlist {
	out := make([]models.Playlist, len(playlists))
	for i, playlist := range playlists {
		out[i] = playlist
		out[i].Tracks = make([]models.Track, len(playlist.Tracks))
		copy(out[i].Tracks, playlist.Tracks)
	}
	return out
}
