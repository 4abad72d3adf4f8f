package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/charmbracelet/log"
)

// Port is the persistence boundary the store writes through.
//
// Save receives the complete collection after every successful mutation; there
// is no partial write or transaction log. Load is called once at construction.
type Port interface {
	Load() ([]models.Playlist, error)
	Save(playlists []models.Playlist) error
}

// PlaylistStore owns the mapping from owners to their playlists.
//
// All mutations are serialized by an internal mutex so the HTTP server, CLI,
// and TUI can share one instance.
type PlaylistStore struct {
	mu        sync.Mutex
	port      Port
	playlists []models.Playlist
	logger    *log.Logger
}

// NewPlaylistStore creates a PlaylistStore backed by the given port, loading
// the persisted snapshot into memory.
func NewPlaylistStore(port Port, logger *log.Logger) (*PlaylistStore, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	playlists, err := port.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load playlist snapshot: %w", err)
	}

	return &PlaylistStore{
		port:      port,
		playlists: playlists,
		logger:    logger,
	}, nil
}

// Create appends a new empty playlist for the given owner and persists.
//
// The store generates the ID and timestamp. Blank names are the caller's
// responsibility to reject; the store accepts whatever it is given.
func (s *PlaylistStore) Create(ownerID, name string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlist := models.Playlist{
		ID:        shared.GenerateID(),
		Name:      name,
		OwnerID:   ownerID,
		Tracks:    []models.Track{},
		CreatedAt: time.Now(),
	}

	next := append(s.snapshot(), playlist)
	if err := s.commit(next); err != nil {
		return models.Playlist{}, err
	}

	s.logger.Debug("created playlist", "id", playlist.ID, "owner", ownerID)
	return copyPlaylist(playlist), nil
}

// Rename replaces the playlist's name in place and persists.
func (s *PlaylistStore) Rename(playlistID, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	next := s.snapshot()
	next[idx].Name = newName
	return s.commit(next)
}

// Delete removes the playlist and all its tracks from the collection and persists.
func (s *PlaylistStore) Delete(playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	next := make([]models.Playlist, 0, len(s.playlists)-1)
	next = append(next, s.playlists[:idx]...)
	next = append(next, s.playlists[idx+1:]...)
	return s.commit(next)
}

// AddTrack appends the track to the playlist unless a track with the same ID
// is already present, in which case the call is a no-op. Persists on success.
func (s *PlaylistStore) AddTrack(playlistID string, track models.Track) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	if s.playlists[idx].HasTrack(track.ID) {
		return nil
	}

	next := s.snapshot()
	tracks := make([]models.Track, 0, len(next[idx].Tracks)+1)
	tracks = append(tracks, next[idx].Tracks...)
	next[idx].Tracks = append(tracks, track)
	return s.commit(next)
}

// RemoveTrack filters out the track with the given ID; removing an absent
// track ID is a no-op. Persists either way.
func (s *PlaylistStore) RemoveTrack(playlistID, trackID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	filtered := []models.Track{}
	for _, track := range s.playlists[idx].Tracks {
		if track.ID != trackID {
			filtered = append(filtered, track)
		}
	}

	next := s.snapshot()
	next[idx].Tracks = filtered
	return s.commit(next)
}

// Get retrieves a copy of the playlist with the given ID.
func (s *PlaylistStore) Get(playlistID string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(playlistID)
	if idx < 0 {
		return models.Playlist{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	return copyPlaylist(s.playlists[idx]), nil
}

// ListByOwner returns copies of the owner's playlists in insertion order.
func (s *PlaylistStore) ListByOwner(ownerID string) []models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []models.Playlist
	for _, playlist := range s.playlists {
		if playlist.OwnerID == ownerID {
			owned = append(owned, copyPlaylist(playlist))
		}
	}

	return owned
}

// Len reports the total number of playlists across all owners.
func (s *PlaylistStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.playlists)
}

// indexOf finds the position of a playlist by ID; callers must hold the lock.
func (s *PlaylistStore) indexOf(playlistID string) int {
	for i, playlist := range s.playlists {
		if playlist.ID == playlistID {
			return i
		}
	}
	return -1
}

// snapshot returns a shallow copy of the collection so a mutation can be
// staged without touching the live slice; callers must hold the lock.
func (s *PlaylistStore) snapshot() []models.Playlist {
	next := make([]models.Playlist, len(s.playlists))
	copy(next, s.playlists)
	return next
}

// commit writes the candidate collection through the port and adopts it only
// when the save succeeds, so a failed save leaves the in-memory state as it
// was. Callers must hold the lock.
func (s *PlaylistStore) commit(next []models.Playlist) error {
	if err := s.port.Save(next); err != nil {
		return fmt.Errorf("failed to persist playlists: %w", err)
	}
	s.playlists = next
	return nil
}

// copyPlaylist returns a playlist whose track slice is detached from the
// store's internal state.
func copyPlaylist(playlist models.Playlist) models.Playlist {
	out := playlist
	out.Tracks = make([]models.Track, len(playlist.Tracks))
	copy(out.Tracks, playlist.Tracks)
	return out
}
