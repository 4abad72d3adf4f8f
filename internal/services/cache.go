package services

import (
	"context"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/charmbracelet/log"
)

// SearchCache stores catalog results keyed by search mode and normalized term.
//
// Implemented by repositories.SearchCacheRepository.
type SearchCache interface {
	// Get returns the cached tracks for (mode, term) and whether a fresh
	// entry was found.
	Get(mode, term string) ([]models.Track, bool, error)

	// Put stores the tracks for (mode, term), replacing any previous entry.
	Put(mode, term string, tracks []models.Track) error
}

// CachedCatalog decorates a [Catalog] with read-through caching.
//
// Cache failures are logged and otherwise ignored: a broken cache degrades to
// direct catalog access, never to a failed search.
type CachedCatalog struct {
	catalog Catalog
	cache   SearchCache
	logger  *log.Logger
}

// NewCachedCatalog wraps catalog with the given cache.
func NewCachedCatalog(catalog Catalog, cache SearchCache, logger *log.Logger) *CachedCatalog {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CachedCatalog{catalog: catalog, cache: cache, logger: logger}
}

// Name returns the underlying catalog source name.
func (c *CachedCatalog) Name() string {
	return c.catalog.Name()
}

// SearchByArtist serves from cache when fresh, otherwise searches and writes through.
func (c *CachedCatalog) SearchByArtist(ctx context.Context, term string) ([]models.Track, error) {
	return c.lookup(ctx, ModeArtist, term, func() ([]models.Track, error) {
		return c.catalog.SearchByArtist(ctx, term)
	})
}

// SearchByTrack serves from cache when fresh, otherwise searches and writes through.
func (c *CachedCatalog) SearchByTrack(ctx context.Context, term string) ([]models.Track, error) {
	return c.lookup(ctx, ModeTrack, term, func() ([]models.Track, error) {
		return c.catalog.SearchByTrack(ctx, term)
	})
}

// Popular serves the curated selection, cached under a fixed key.
func (c *CachedCatalog) Popular(ctx context.Context) ([]models.Track, error) {
	return c.lookup(ctx, ModePopular, "", func() ([]models.Track, error) {
		return c.catalog.Popular(ctx)
	})
}

func (c *CachedCatalog) lookup(_ context.Context, mode, term string, fetch func() ([]models.Track, error)) ([]models.Track, error) {
	key := shared.NormalizeTerm(term)

	cached, ok, err := c.cache.Get(mode, key)
	if err != nil {
		c.logger.Warn("search cache read failed", "mode", mode, "err", err)
	} else if ok {
		return cached, nil
	}

	tracks, err := fetch()
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(mode, key, tracks); err != nil {
		c.logger.Warn("search cache write failed", "mode", mode, "err", err)
	}

	return tracks, nil
}
