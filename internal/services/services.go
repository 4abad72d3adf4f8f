package services

import (
	"context"

	"github.com/GustavoTessaro/myplaylist/internal/models"
)

// Search modes accepted by the catalog and used as cache keys.
const (
	ModeArtist  = "artist"
	ModeTrack   = "track"
	ModePopular = "popular"
)

// Catalog defines the boundary to the external music metadata source.
//
// All methods return a bounded list of tracks; an empty list is a successful
// search with no matches, while failures (network error, malformed response)
// are returned as errors.
type Catalog interface {
	// SearchByArtist resolves the artist matching term and returns that
	// artist's tracks.
	SearchByArtist(ctx context.Context, term string) ([]models.Track, error)

	// SearchByTrack returns tracks whose name matches term.
	SearchByTrack(ctx context.Context, term string) ([]models.Track, error)

	// Popular returns a curated selection of well-known tracks.
	Popular(ctx context.Context) ([]models.Track, error)

	// Name returns the name of the catalog source (e.g. "TheAudioDB")
	Name() string
}
