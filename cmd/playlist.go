package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/GustavoTessaro/myplaylist/internal/formatter"
	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/services"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/GustavoTessaro/myplaylist/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistCreate creates an empty playlist owned by the logged-in user.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	ownerID, err := r.requireLogin()
	if err != nil {
		return err
	}

	playlist, err := r.store.Create(ownerID, name)
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	r.logger.Info("created playlist", "id", playlist.ID, "name", playlist.Name)
	return r.writePlain("✓ Created playlist %q (%s)\n", playlist.Name, playlist.ID)
}

// PlaylistList prints the logged-in user's playlists in insertion order.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	ownerID, err := r.requireLogin()
	if err != nil {
		return err
	}

	playlists := r.store.ListByOwner(ownerID)

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Playlists")

	if len(playlists) == 0 {
		return r.writePlainln("No playlists yet")
	}

	for _, playlist := range playlists {
		r.writePlain("%s  %s (%d tracks)\n", playlist.ID, playlist.Name, len(playlist.Tracks))
	}

	return nil
}

// PlaylistRename renames a playlist in place.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	name := strings.TrimSpace(cmd.String("name"))
	if name == "" {
		return fmt.Errorf("%w: new playlist name is required", shared.ErrMissingArgument)
	}

	playlist, err := r.ownedPlaylist(cmd.String("id"))
	if err != nil {
		return err
	}

	if err := r.store.Rename(playlist.ID, name); err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}

	return r.writePlain("✓ Renamed %q to %q\n", playlist.Name, name)
}

// PlaylistDelete removes a playlist and all its tracks.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.ownedPlaylist(cmd.String("id"))
	if err != nil {
		return err
	}

	if err := r.store.Delete(playlist.ID); err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	r.logger.Info("deleted playlist", "id", playlist.ID)
	return r.writePlain("✓ Deleted playlist %q\n", playlist.Name)
}

// PlaylistAdd searches the catalog and appends the picked result to a playlist.
//
// Adding a track that is already present is reported as such, not as a failure.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.ownedPlaylist(cmd.String("id"))
	if err != nil {
		return err
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	term := cmd.String("query")
	mode := cmd.String("mode")

	var tracks []models.Track
	switch mode {
	case services.ModeArtist:
		tracks, err = r.catalog.SearchByArtist(ctx, term)
	case services.ModeTrack:
		tracks, err = r.catalog.SearchByTrack(ctx, term)
	default:
		return fmt.Errorf("%w: unknown search mode %q", shared.ErrInvalidArgument, mode)
	}

	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	pick := cmd.Int("pick")
	if pick < 1 || pick > len(tracks) {
		return fmt.Errorf("%w: no result at position %d (%d results)", shared.ErrInvalidArgument, pick, len(tracks))
	}

	track := tracks[pick-1]

	if playlist.HasTrack(track.ID) {
		return r.writePlain("Track %q is already in %q\n", track.Title, playlist.Name)
	}

	if err := r.store.AddTrack(playlist.ID, track); err != nil {
		return fmt.Errorf("failed to add track: %w", err)
	}

	r.logger.Info("added track", "playlist", playlist.ID, "track", track.ID)
	return r.writePlain("✓ Added %q by %s to %q\n", track.Title, track.Artist, playlist.Name)
}

// PlaylistRemove removes a track from a playlist by track ID.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.ownedPlaylist(cmd.String("id"))
	if err != nil {
		return err
	}

	trackID := cmd.String("track-id")
	if !playlist.HasTrack(trackID) {
		return r.writePlain("Track %s is not in %q\n", trackID, playlist.Name)
	}

	if err := r.store.RemoveTrack(playlist.ID, trackID); err != nil {
		return fmt.Errorf("failed to remove track: %w", err)
	}

	r.logger.Info("removed track", "playlist", playlist.ID, "track", trackID)
	return r.writePlain("✓ Removed track from %q\n", playlist.Name)
}

// PlaylistExport writes a playlist in the requested format to a file or stdout.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	playlist, err := r.ownedPlaylist(cmd.String("id"))
	if err != nil {
		return err
	}

	var data []byte
	format := cmd.String("format")

	switch format {
	case "csv":
		data, err = formatter.ExportToCSV(playlist)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(playlist)
	case "text", "txt":
		data, err = formatter.ExportToText(playlist)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}

	if err != nil {
		return fmt.Errorf("failed to export playlist: %w", err)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		return r.writePlain("%s", string(data))
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	r.logger.Info("exported playlist", "id", playlist.ID, "format", format, "path", outputPath)
	return r.writePlain("✓ Exported %q to %s\n", playlist.Name, outputPath)
}

// PlaylistExportAll exports every playlist of the logged-in user concurrently,
// streaming progress to the output as it goes.
func (r *Runner) PlaylistExportAll(ctx context.Context, cmd *cli.Command) error {
	ownerID, err := r.requireLogin()
	if err != nil {
		return err
	}

	if r.store == nil {
		return fmt.Errorf("%w: playlist store not initialized", shared.ErrServiceUnavailable)
	}

	engine := tasks.NewExportEngine(r.store)
	prog := make(chan tasks.ProgressUpdate, 50)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.BulkExport(ctx, prog, ownerID, tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("dir"),
		NumWorkers: cmd.Int("workers"),
	})
	close(prog)
	<-done

	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}

	r.writePlainHeader("Export Summary")
	r.writePlain("Exported: %d/%d playlists\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.FailedExports > 0 {
		r.writePlain("Failed: %d\n", result.FailedExports)
	}
	r.writePlain("Output: %s\n", result.OutputDirectory)

	return nil
}

// ownedPlaylist resolves a playlist ID and checks it belongs to the logged-in
// user. Other owners' playlists are reported as not found.
func (r *Runner) ownedPlaylist(playlistID string) (models.Playlist, error) {
	ownerID, err := r.requireLogin()
	if err != nil {
		return models.Playlist{}, err
	}

	if r.store == nil {
		return models.Playlist{}, fmt.Errorf("%w: playlist store not initialized", shared.ErrServiceUnavailable)
	}

	playlist, err := r.store.Get(playlistID)
	if err != nil {
		return models.Playlist{}, err
	}

	if playlist.OwnerID != ownerID {
		return models.Playlist{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	return playlist, nil
}
