package main

import (
	"context"
	"fmt"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/urfave/cli/v3"
)

// SearchArtist lists catalog tracks for an artist name.
func (r *Runner) SearchArtist(ctx context.Context, cmd *cli.Command) error {
	term := cmd.StringArg("term")
	if term == "" {
		return fmt.Errorf("%w: search term is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("searching catalog", "mode", "artist", "term", term)

	tracks, err := r.catalog.SearchByArtist(ctx, term)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return r.printTracks(cmd, fmt.Sprintf("Tracks by %q", term), tracks)
}

// SearchTrack searches catalog tracks by title.
func (r *Runner) SearchTrack(ctx context.Context, cmd *cli.Command) error {
	term := cmd.StringArg("term")
	if term == "" {
		return fmt.Errorf("%w: search term is required", shared.ErrMissingArgument)
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("searching catalog", "mode", "track", "term", term)

	tracks, err := r.catalog.SearchByTrack(ctx, term)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return r.printTracks(cmd, fmt.Sprintf("Tracks matching %q", term), tracks)
}

// Popular shows the curated popular selection.
func (r *Runner) Popular(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("fetching popular tracks")

	tracks, err := r.catalog.Popular(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch popular tracks: %w", err)
	}

	return r.printTracks(cmd, "Popular tracks", tracks)
}

func (r *Runner) printTracks(cmd *cli.Command, title string, tracks []models.Track) error {
	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(title)

	if len(tracks) == 0 {
		return r.writePlainln("No results")
	}

	for i, track := range tracks {
		r.writePlain("%2d. %s - %s", i+1, track.Title, track.Artist)
		if track.Year != models.UnknownField {
			r.writePlain(" (%s)", track.Year)
		}
		r.writePlain("\n")
	}

	return nil
}
