package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleTracks() []models.Track {
	return []models.Track{
		{ID: "t1", Title: "Yellow", Artist: "Coldplay", Genre: "Alternative Rock", Year: "2000", Thumb: "http://img/t1.jpg"},
		{ID: "t2", Title: "Clocks", Artist: "Coldplay", Genre: "Unknown", Year: "Unknown"},
	}
}

func TestSearchCacheRepository(t *testing.T) {
	t.Run("Miss on empty cache", func(t *testing.T) {
		repo := NewSearchCacheRepository(setupTestDB(t), time.Hour)

		_, ok, err := repo.Get("artist", "coldplay")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if ok {
			t.Error("expected miss on empty cache")
		}
	})

	t.Run("Put then Get preserves order and fields", func(t *testing.T) {
		repo := NewSearchCacheRepository(setupTestDB(t), time.Hour)

		if err := repo.Put("artist", "coldplay", sampleTracks()); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		tracks, ok, err := repo.Get("artist", "coldplay")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !ok {
			t.Fatal("expected hit after put")
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].ID != "t1" || tracks[1].ID != "t2" {
			t.Error("expected tracks in stored order")
		}
		if tracks[0].Thumb != "http://img/t1.jpg" {
			t.Errorf("thumb lost in round trip: %q", tracks[0].Thumb)
		}
	})

	t.Run("Put replaces previous entry", func(t *testing.T) {
		repo := NewSearchCacheRepository(setupTestDB(t), time.Hour)

		if err := repo.Put("track", "yellow", sampleTracks()); err != nil {
			t.Fatalf("first put failed: %v", err)
		}
		if err := repo.Put("track", "yellow", []models.Track{{ID: "t9", Title: "Other"}}); err != nil {
			t.Fatalf("second put failed: %v", err)
		}

		tracks, ok, err := repo.Get("track", "yellow")
		if err != nil || !ok {
			t.Fatalf("get failed: ok=%v err=%v", ok, err)
		}
		if len(tracks) != 1 || tracks[0].ID != "t9" {
			t.Errorf("expected replacement entry, got %+v", tracks)
		}
	})

	t.Run("Modes are distinct entries", func(t *testing.T) {
		repo := NewSearchCacheRepository(setupTestDB(t), time.Hour)

		repo.Put("artist", "queen", sampleTracks())

		_, ok, err := repo.Get("track", "queen")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if ok {
			t.Error("expected miss for same term under different mode")
		}
	})

	t.Run("Empty result list is cached", func(t *testing.T) {
		repo := NewSearchCacheRepository(setupTestDB(t), time.Hour)

		if err := repo.Put("artist", "nobody", []models.Track{}); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		tracks, ok, err := repo.Get("artist", "nobody")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !ok {
			t.Fatal("expected hit for cached empty result")
		}
		if len(tracks) != 0 {
			t.Errorf("expected empty result, got %d tracks", len(tracks))
		}
	})

	t.Run("Stale entries are evicted", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSearchCacheRepository(db, time.Hour)

		if err := repo.Put("artist", "coldplay", sampleTracks()); err != nil {
			t.Fatalf("put failed: %v", err)
		}

		// Age the entry past the TTL
		if _, err := db.Exec(`UPDATE search_cache SET cached_at = ?`, time.Now().Add(-2*time.Hour)); err != nil {
			t.Fatalf("failed to age entry: %v", err)
		}

		_, ok, err := repo.Get("artist", "coldplay")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if ok {
			t.Error("expected stale entry to miss")
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM search_cache`).Scan(&count); err != nil {
			t.Fatalf("failed to count entries: %v", err)
		}
		if count != 0 {
			t.Errorf("expected stale entry to be removed, %d rows remain", count)
		}
	})

	t.Run("Purge", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSearchCacheRepository(db, time.Hour)

		repo.Put("artist", "coldplay", sampleTracks())
		repo.Put("track", "yellow", sampleTracks())

		if err := repo.Purge(); err != nil {
			t.Fatalf("purge failed: %v", err)
		}

		for _, mode := range []string{"artist", "track"} {
			if _, ok, _ := repo.Get(mode, "coldplay"); ok {
				t.Errorf("expected miss after purge for mode %s", mode)
			}
		}
	})
}
