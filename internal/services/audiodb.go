// TheAudioDB implementation of [Catalog]
//
// API response types based on https://www.theaudiodb.com/api_guide.php
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultAudioDBBaseURL = "https://www.theaudiodb.com/api/v1/json"

	// The shared test key published in TheAudioDB's API guide.
	defaultAudioDBKey = "2"

	defaultResultLimit = 10
)

// popularArtists seeds the popular-tracks view; TheAudioDB has no popularity
// endpoint, so a fixed artist rotation stands in for one.
var popularArtists = []string{"Coldplay", "Queen", "The Beatles"}

// tracksPerPopularArtist bounds each artist's contribution to Popular.
const tracksPerPopularArtist = 3

// audioDBArtist represents an artist object in search responses.
type audioDBArtist struct {
	ID    string `json:"idArtist"`
	Name  string `json:"strArtist"`
	Genre string `json:"strGenre"`
	Thumb string `json:"strArtistThumb"`
}

// audioDBTrack represents a track object in track responses.
type audioDBTrack struct {
	ID     string `json:"idTrack"`
	Title  string `json:"strTrack"`
	Artist string `json:"strArtist"`
	Genre  string `json:"strGenre"`
	Year   string `json:"intYearReleased"`
	Thumb  string `json:"strTrackThumb"`
}

type artistSearchResponse struct {
	Artists []audioDBArtist `json:"artists"`
}

type trackListResponse struct {
	Track []audioDBTrack `json:"track"`
}

// AudioDBService implements [Catalog] against TheAudioDB public API.
//
// Requests are rate limited as a courtesy to the shared public endpoint.
type AudioDBService struct {
	baseURL    string
	apiKey     string
	limit      int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// AudioDBOpts contains configuration options for creating an AudioDBService.
type AudioDBOpts struct {
	BaseURL    string
	APIKey     string
	Limit      int
	HTTPClient *http.Client
}

// NewAudioDBService creates a catalog client, filling unset options with defaults.
func NewAudioDBService(opts AudioDBOpts) *AudioDBService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultAudioDBBaseURL
	}
	if opts.APIKey == "" {
		opts.APIKey = defaultAudioDBKey
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultResultLimit
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &AudioDBService{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		limit:      opts.Limit,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(2), 2),
	}
}

// Name returns the catalog source name.
func (a *AudioDBService) Name() string {
	return "TheAudioDB"
}

// SearchByArtist resolves term to an artist and returns that artist's tracks.
//
// No artist match is a successful empty result.
func (a *AudioDBService) SearchByArtist(ctx context.Context, term string) ([]models.Track, error) {
	var artists artistSearchResponse
	endpoint := fmt.Sprintf("/search.php?s=%s", url.QueryEscape(term))
	if err := a.doRequest(ctx, endpoint, &artists); err != nil {
		return nil, err
	}

	if len(artists.Artists) == 0 {
		return []models.Track{}, nil
	}

	var tracks trackListResponse
	endpoint = fmt.Sprintf("/track.php?m=%s", url.QueryEscape(artists.Artists[0].ID))
	if err := a.doRequest(ctx, endpoint, &tracks); err != nil {
		return nil, err
	}

	return a.convert(tracks.Track, a.limit), nil
}

// SearchByTrack returns tracks whose name matches term.
func (a *AudioDBService) SearchByTrack(ctx context.Context, term string) ([]models.Track, error) {
	var tracks trackListResponse
	endpoint := fmt.Sprintf("/searchtrack.php?s=%s", url.QueryEscape(term))
	if err := a.doRequest(ctx, endpoint, &tracks); err != nil {
		return nil, err
	}

	return a.convert(tracks.Track, a.limit), nil
}

// Popular aggregates a few tracks from each of a fixed artist rotation.
func (a *AudioDBService) Popular(ctx context.Context) ([]models.Track, error) {
	var all []models.Track
	for _, artist := range popularArtists {
		tracks, err := a.SearchByArtist(ctx, artist)
		if err != nil {
			return nil, err
		}

		if len(tracks) > tracksPerPopularArtist {
			tracks = tracks[:tracksPerPopularArtist]
		}
		all = append(all, tracks...)
	}

	if len(all) > a.limit {
		all = all[:a.limit]
	}
	if all == nil {
		all = []models.Track{}
	}

	return all, nil
}

// doRequest performs a rate-limited GET against the API and decodes the JSON response.
func (a *AudioDBService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait interrupted: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s%s", a.baseURL, a.apiKey, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: audiodb status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// convert normalizes wire tracks into the local record shape, capping at limit.
func (a *AudioDBService) convert(tracks []audioDBTrack, limit int) []models.Track {
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}

	out := make([]models.Track, 0, len(tracks))
	for _, track := range tracks {
		out = append(out, models.Track{
			ID:     track.ID,
			Title:  track.Title,
			Artist: track.Artist,
			Genre:  orUnknown(track.Genre),
			Year:   orUnknown(track.Year),
			Thumb:  track.Thumb,
		})
	}

	return out
}

// orUnknown normalizes missing catalog fields to the literal "Unknown".
func orUnknown(s string) string {
	if s == "" {
		return models.UnknownField
	}
	return s
}
