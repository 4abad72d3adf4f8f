package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
)

// DefaultCacheTTL bounds how long a cached search stays fresh when the
// configuration does not say otherwise.
const DefaultCacheTTL = time.Hour

// SearchCacheRepository implements services.SearchCache on SQLite.
//
// Entries older than the TTL are treated as misses and removed lazily on read.
type SearchCacheRepository struct {
	db  *sql.DB
	ttl time.Duration
}

// NewSearchCacheRepository creates a repository with the given freshness window.
func NewSearchCacheRepository(db *sql.DB, ttl time.Duration) *SearchCacheRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &SearchCacheRepository{db: db, ttl: ttl}
}

// Get returns the cached tracks for (mode, term) if a fresh entry exists.
func (r *SearchCacheRepository) Get(mode, term string) ([]models.Track, bool, error) {
	var (
		id       string
		cachedAt time.Time
	)

	query := `SELECT id, cached_at FROM search_cache WHERE mode = ? AND term = ?`
	err := r.db.QueryRow(query, mode, term).Scan(&id, &cachedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query search cache: %w", err)
	}

	if time.Since(cachedAt) > r.ttl {
		if err := r.evict(id); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}

	tracks, err := r.tracksFor(id)
	if err != nil {
		return nil, false, err
	}

	return tracks, true, nil
}

// Put stores the tracks for (mode, term), replacing any previous entry.
func (r *SearchCacheRepository) Put(mode, term string, tracks []models.Track) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM search_cache_tracks
		WHERE cache_id IN (SELECT id FROM search_cache WHERE mode = ? AND term = ?)
	`, mode, term); err != nil {
		return fmt.Errorf("failed to clear cached tracks: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM search_cache WHERE mode = ? AND term = ?`, mode, term); err != nil {
		return fmt.Errorf("failed to clear cache entry: %w", err)
	}

	id := shared.GenerateID()
	if _, err := tx.Exec(
		`INSERT INTO search_cache (id, mode, term, cached_at) VALUES (?, ?, ?, ?)`,
		id, mode, term, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	for i, track := range tracks {
		if _, err := tx.Exec(`
			INSERT INTO search_cache_tracks (cache_id, position, track_id, title, artist, genre, year, thumb)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, i, track.ID, track.Title, track.Artist, track.Genre, track.Year, track.Thumb); err != nil {
			return fmt.Errorf("failed to insert cached track: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cache entry: %w", err)
	}

	return nil
}

// Purge removes every cache entry regardless of age.
func (r *SearchCacheRepository) Purge() error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM search_cache_tracks`); err != nil {
		return fmt.Errorf("failed to purge cached tracks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM search_cache`); err != nil {
		return fmt.Errorf("failed to purge cache entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purge: %w", err)
	}

	return nil
}

// tracksFor loads the cached result list in stored order.
func (r *SearchCacheRepository) tracksFor(cacheID string) ([]models.Track, error) {
	rows, err := r.db.Query(`
		SELECT track_id, title, artist, genre, year, thumb
		FROM search_cache_tracks
		WHERE cache_id = ?
		ORDER BY position ASC
	`, cacheID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		var track models.Track
		if err := rows.Scan(&track.ID, &track.Title, &track.Artist, &track.Genre, &track.Year, &track.Thumb); err != nil {
			return nil, fmt.Errorf("failed to scan cached track: %w", err)
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// evict removes a single stale entry and its tracks.
func (r *SearchCacheRepository) evict(cacheID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM search_cache_tracks WHERE cache_id = ?`, cacheID); err != nil {
		return fmt.Errorf("failed to evict cached tracks: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM search_cache WHERE id = ?`, cacheID); err != nil {
		return fmt.Errorf("failed to evict cache entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit eviction: %w", err)
	}

	return nil
}
