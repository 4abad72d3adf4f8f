package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/GustavoTessaro/myplaylist/internal/models"
)

// fakeCatalog counts calls so cache hits are observable
type fakeCatalog struct {
	calls  int
	tracks []models.Track
	err    error
}

func (f *fakeCatalog) SearchByArtist(ctx context.Context, term string) ([]models.Track, error) {
	f.calls++
	return f.tracks, f.err
}

func (f *fakeCatalog) SearchByTrack(ctx context.Context, term string) ([]models.Track, error) {
	f.calls++
	return f.tracks, f.err
}

func (f *fakeCatalog) Popular(ctx context.Context) ([]models.Track, error) {
	f.calls++
	return f.tracks, f.err
}

func (f *fakeCatalog) Name() string { return "fake" }

// mapCache is an in-memory SearchCache
type mapCache struct {
	entries map[string][]models.Track
	getErr  error
	putErr  error
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]models.Track{}}
}

func (m *mapCache) Get(mode, term string) ([]models.Track, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	tracks, ok := m.entries[mode+"|"+term]
	return tracks, ok, nil
}

func (m *mapCache) Put(mode, term string, tracks []models.Track) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[mode+"|"+term] = tracks
	return nil
}

func TestCachedCatalog(t *testing.T) {
	results := []models.Track{{ID: "t1", Title: "Yellow", Artist: "Coldplay"}}

	t.Run("Miss then hit", func(t *testing.T) {
		upstream := &fakeCatalog{tracks: results}
		cached := NewCachedCatalog(upstream, newMapCache(), nil)

		first, err := cached.SearchByArtist(context.Background(), "Coldplay")
		if err != nil {
			t.Fatalf("first search failed: %v", err)
		}
		second, err := cached.SearchByArtist(context.Background(), "Coldplay")
		if err != nil {
			t.Fatalf("second search failed: %v", err)
		}

		if upstream.calls != 1 {
			t.Errorf("expected 1 upstream call, got %d", upstream.calls)
		}
		if len(first) != 1 || len(second) != 1 {
			t.Errorf("expected cached results to match, got %d and %d", len(first), len(second))
		}
	})

	t.Run("Terms normalized for cache key", func(t *testing.T) {
		upstream := &fakeCatalog{tracks: results}
		cached := NewCachedCatalog(upstream, newMapCache(), nil)

		cached.SearchByTrack(context.Background(), "Bohemian  Rhapsody")
		cached.SearchByTrack(context.Background(), "  bohemian rhapsody ")

		if upstream.calls != 1 {
			t.Errorf("expected equivalent terms to share an entry, got %d upstream calls", upstream.calls)
		}
	})

	t.Run("Modes do not collide", func(t *testing.T) {
		upstream := &fakeCatalog{tracks: results}
		cached := NewCachedCatalog(upstream, newMapCache(), nil)

		cached.SearchByArtist(context.Background(), "Queen")
		cached.SearchByTrack(context.Background(), "Queen")

		if upstream.calls != 2 {
			t.Errorf("expected separate entries per mode, got %d upstream calls", upstream.calls)
		}
	})

	t.Run("Cache failure degrades to direct access", func(t *testing.T) {
		upstream := &fakeCatalog{tracks: results}
		cache := newMapCache()
		cache.getErr = fmt.Errorf("db locked")
		cache.putErr = fmt.Errorf("db locked")
		cached := NewCachedCatalog(upstream, cache, nil)

		tracks, err := cached.Popular(context.Background())
		if err != nil {
			t.Fatalf("expected cache failure to be swallowed, got %v", err)
		}
		if len(tracks) != 1 {
			t.Errorf("expected upstream results, got %d", len(tracks))
		}
	})

	t.Run("Upstream failure is not cached", func(t *testing.T) {
		upstream := &fakeCatalog{err: fmt.Errorf("network down")}
		cache := newMapCache()
		cached := NewCachedCatalog(upstream, cache, nil)

		if _, err := cached.SearchByArtist(context.Background(), "Queen"); err == nil {
			t.Fatal("expected upstream error to surface")
		}
		if len(cache.entries) != 0 {
			t.Error("failed search must not populate the cache")
		}
	})
}
