package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
)

// failPort fails every Save to exercise persistence error paths
type failPort struct{}

func (p *failPort) Load() ([]models.Playlist, error) { return []models.Playlist{}, nil }
func (p *failPort) Save([]models.Playlist) error     { return fmt.Errorf("disk full") }

// flakyPort is a MemoryPort whose Save fails while fail is set
type flakyPort struct {
	*MemoryPort
	fail bool
}

func (p *flakyPort) Save(playlists []models.Playlist) error {
	if p.fail {
		return fmt.Errorf("disk full")
	}
	return p.MemoryPort.Save(playlists)
}

func newTestStore(t *testing.T) (*PlaylistStore, *MemoryPort) {
	t.Helper()

	port := NewMemoryPort()
	s, err := NewPlaylistStore(port, nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s, port
}

func track(id string) models.Track {
	return models.Track{ID: id, Title: "Track " + id, Artist: "Artist", Genre: "Rock", Year: "2000"}
}

func TestPlaylistStore(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		s, _ := newTestStore(t)

		playlist, err := s.Create("alice", "Road Trip")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		if playlist.ID == "" {
			t.Error("expected generated id")
		}
		if playlist.CreatedAt.IsZero() {
			t.Error("expected creation timestamp")
		}
		if playlist.OwnerID != "alice" {
			t.Errorf("expected owner alice, got %s", playlist.OwnerID)
		}
		if len(playlist.Tracks) != 0 {
			t.Errorf("expected empty track list, got %d tracks", len(playlist.Tracks))
		}
	})

	t.Run("Create generates unique ids", func(t *testing.T) {
		s, _ := newTestStore(t)

		a, _ := s.Create("alice", "First")
		b, _ := s.Create("alice", "Second")

		if a.ID == b.ID {
			t.Errorf("expected distinct ids, both were %s", a.ID)
		}
	})

	t.Run("Duplicate names allowed", func(t *testing.T) {
		s, _ := newTestStore(t)

		if _, err := s.Create("alice", "Favorites"); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		if _, err := s.Create("alice", "Favorites"); err != nil {
			t.Fatalf("second create with same name failed: %v", err)
		}

		if got := len(s.ListByOwner("alice")); got != 2 {
			t.Errorf("expected 2 playlists, got %d", got)
		}
	})

	t.Run("Rename", func(t *testing.T) {
		s, _ := newTestStore(t)
		playlist, _ := s.Create("alice", "Old Name")

		if err := s.Rename(playlist.ID, "New Name"); err != nil {
			t.Fatalf("failed to rename: %v", err)
		}

		renamed, err := s.Get(playlist.ID)
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if renamed.Name != "New Name" {
			t.Errorf("expected name 'New Name', got %s", renamed.Name)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s, _ := newTestStore(t)
		playlist, _ := s.Create("alice", "Doomed")

		if err := s.Delete(playlist.ID); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}

		// Delete then ListByOwner never returns the deleted id, for any owner
		for _, owner := range []string{"alice", "bob"} {
			for _, pl := range s.ListByOwner(owner) {
				if pl.ID == playlist.ID {
					t.Errorf("deleted playlist %s still listed for %s", playlist.ID, owner)
				}
			}
		}

		if _, err := s.Get(playlist.ID); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Create then immediate Delete", func(t *testing.T) {
		s, _ := newTestStore(t)

		playlist, _ := s.Create("alice", "Ephemeral")
		if err := s.Delete(playlist.ID); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}

		if got := s.ListByOwner("alice"); len(got) != 0 {
			t.Errorf("expected empty list for alice, got %d playlists", len(got))
		}
	})

	t.Run("AddTrack", func(t *testing.T) {
		s, _ := newTestStore(t)
		playlist, _ := s.Create("alice", "Road Trip")

		if err := s.AddTrack(playlist.ID, track("t1")); err != nil {
			t.Fatalf("failed to add track: %v", err)
		}
		if err := s.AddTrack(playlist.ID, track("t2")); err != nil {
			t.Fatalf("failed to add second track: %v", err)
		}

		got, _ := s.Get(playlist.ID)
		if len(got.Tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(got.Tracks))
		}
		if got.Tracks[0].ID != "t1" || got.Tracks[1].ID != "t2" {
			t.Error("expected insertion order t1, t2")
		}
	})

	t.Run("AddTrack is idempotent by track id", func(t *testing.T) {
		s, _ := newTestStore(t)
		playlist, _ := s.Create("alice", "Road Trip")

		if err := s.AddTrack(playlist.ID, track("t1")); err != nil {
			t.Fatalf("first add failed: %v", err)
		}
		if err := s.AddTrack(playlist.ID, track("t1")); err != nil {
			t.Fatalf("duplicate add should be a no-op, got %v", err)
		}

		got, _ := s.Get(playlist.ID)
		if len(got.Tracks) != 1 {
			t.Errorf("expected exactly 1 track, got %d", len(got.Tracks))
		}
		if got.Tracks[0].ID != "t1" {
			t.Errorf("expected track t1, got %s", got.Tracks[0].ID)
		}
	})

	t.Run("RemoveTrack", func(t *testing.T) {
		s, _ := newTestStore(t)
		playlist, _ := s.Create("alice", "Road Trip")
		s.AddTrack(playlist.ID, track("t1"))
		s.AddTrack(playlist.ID, track("t2"))

		if err := s.RemoveTrack(playlist.ID, "t1"); err != nil {
			t.Fatalf("failed to remove track: %v", err)
		}

		got, _ := s.Get(playlist.ID)
		if len(got.Tracks) != 1 || got.Tracks[0].ID != "t2" {
			t.Errorf("expected only t2 to remain, got %v", got.Tracks)
		}

		// Second removal of the same id is a no-op
		if err := s.RemoveTrack(playlist.ID, "t1"); err != nil {
			t.Fatalf("repeated remove should be a no-op, got %v", err)
		}

		got, _ = s.Get(playlist.ID)
		if len(got.Tracks) != 1 {
			t.Errorf("expected 1 track after repeated remove, got %d", len(got.Tracks))
		}
	})

	t.Run("ListByOwner filters by owner in insertion order", func(t *testing.T) {
		s, _ := newTestStore(t)

		bobs, _ := s.Create("bob", "Bob's Jams")
		first, _ := s.Create("alice", "First")
		second, _ := s.Create("alice", "Second")

		alice := s.ListByOwner("alice")
		if len(alice) != 2 {
			t.Fatalf("expected 2 playlists for alice, got %d", len(alice))
		}
		if alice[0].ID != first.ID || alice[1].ID != second.ID {
			t.Error("expected alice's playlists in insertion order")
		}
		for _, pl := range alice {
			if pl.ID == bobs.ID {
				t.Error("bob's playlist visible to alice")
			}
		}
	})

	t.Run("Reads are snapshots", func(t *testing.T) {
		s, _ := newTestStore(t)
		playlist, _ := s.Create("alice", "Road Trip")
		s.AddTrack(playlist.ID, track("t1"))

		got, _ := s.Get(playlist.ID)
		got.Tracks[0].Title = "mutated"
		got.Name = "mutated"

		fresh, _ := s.Get(playlist.ID)
		if fresh.Tracks[0].Title == "mutated" || fresh.Name == "mutated" {
			t.Error("mutating a returned playlist leaked into the store")
		}
	})
}

func TestPlaylistStoreNotFound(t *testing.T) {
	ops := []struct {
		name string
		call func(s *PlaylistStore) error
	}{
		{"Rename", func(s *PlaylistStore) error { return s.Rename("missing", "X") }},
		{"Delete", func(s *PlaylistStore) error { return s.Delete("missing") }},
		{"AddTrack", func(s *PlaylistStore) error { return s.AddTrack("missing", track("t1")) }},
		{"RemoveTrack", func(s *PlaylistStore) error { return s.RemoveTrack("missing", "t1") }},
	}

	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			existing, _ := s.Create("alice", "Untouched")
			s.AddTrack(existing.ID, track("t1"))

			err := op.call(s)
			if !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}

			// The collection must be unchanged
			got := s.ListByOwner("alice")
			if len(got) != 1 {
				t.Fatalf("expected 1 playlist, got %d", len(got))
			}
			if got[0].Name != "Untouched" || len(got[0].Tracks) != 1 {
				t.Error("collection changed by failed operation")
			}
		})
	}
}

func TestPlaylistStorePersistence(t *testing.T) {
	t.Run("Snapshot matches in-memory collection after mutations", func(t *testing.T) {
		s, port := newTestStore(t)

		playlist, _ := s.Create("alice", "Road Trip")
		s.AddTrack(playlist.ID, track("t1"))
		s.AddTrack(playlist.ID, track("t2"))
		s.RemoveTrack(playlist.ID, "t1")
		s.Rename(playlist.ID, "Long Road Trip")
		other, _ := s.Create("bob", "Other")
		s.Delete(other.ID)

		// Round-trip: a fresh store loaded from the port sees the same state
		reloaded, err := NewPlaylistStore(port, nil)
		if err != nil {
			t.Fatalf("failed to reload store: %v", err)
		}

		got := reloaded.ListByOwner("alice")
		if len(got) != 1 {
			t.Fatalf("expected 1 playlist after reload, got %d", len(got))
		}
		if got[0].Name != "Long Road Trip" {
			t.Errorf("expected renamed playlist, got %s", got[0].Name)
		}
		if len(got[0].Tracks) != 1 || got[0].Tracks[0].ID != "t2" {
			t.Errorf("expected only t2 after reload, got %v", got[0].Tracks)
		}
		if n := len(reloaded.ListByOwner("bob")); n != 0 {
			t.Errorf("expected no playlists for bob, got %d", n)
		}
	})

	t.Run("Save failure surfaces", func(t *testing.T) {
		s, err := NewPlaylistStore(&failPort{}, nil)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if _, err := s.Create("alice", "Road Trip"); err == nil {
			t.Error("expected error when persistence fails")
		}
	})

	t.Run("Save failure leaves collection unchanged", func(t *testing.T) {
		port := &flakyPort{MemoryPort: NewMemoryPort()}
		s, err := NewPlaylistStore(port, nil)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		playlist, err := s.Create("alice", "Keeper")
		if err != nil {
			t.Fatalf("failed to seed playlist: %v", err)
		}
		if err := s.AddTrack(playlist.ID, track("t1")); err != nil {
			t.Fatalf("failed to seed track: %v", err)
		}

		port.fail = true

		if _, err := s.Create("alice", "Ghost"); err == nil {
			t.Error("expected Create to fail")
		}
		if err := s.Rename(playlist.ID, "Renamed"); err == nil {
			t.Error("expected Rename to fail")
		}
		if err := s.AddTrack(playlist.ID, track("t2")); err == nil {
			t.Error("expected AddTrack to fail")
		}
		if err := s.RemoveTrack(playlist.ID, "t1"); err == nil {
			t.Error("expected RemoveTrack to fail")
		}
		if err := s.Delete(playlist.ID); err == nil {
			t.Error("expected Delete to fail")
		}

		owned := s.ListByOwner("alice")
		if len(owned) != 1 {
			t.Fatalf("expected failed mutations to be discarded, got %d playlists", len(owned))
		}
		if owned[0].Name != "Keeper" {
			t.Errorf("expected name Keeper, got %s", owned[0].Name)
		}
		if len(owned[0].Tracks) != 1 || owned[0].Tracks[0].ID != "t1" {
			t.Errorf("expected only t1, got %v", owned[0].Tracks)
		}

		// A later successful mutation must not smuggle the discarded ones in.
		port.fail = false
		if _, err := s.Create("alice", "Real"); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		persisted, err := port.Load()
		if err != nil {
			t.Fatalf("failed to load snapshot: %v", err)
		}
		if len(persisted) != 2 {
			t.Fatalf("expected 2 persisted playlists, got %d", len(persisted))
		}
		for _, p := range persisted {
			if p.Name == "Ghost" {
				t.Error("discarded playlist leaked into the snapshot")
			}
		}
	})
}
