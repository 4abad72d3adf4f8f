package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/GustavoTessaro/myplaylist/internal/formatter"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string // Export format: json, csv, markdown, txt
	OutputDir  string // Base output directory (default: playlist_export_{epoch})
	NumWorkers int    // Concurrent workers (default: 5)
}

// BulkExport exports all of a user's playlists concurrently with progress tracking.
//
// This method implements a worker pool pattern to export multiple playlists.
// It handles partial failures gracefully and generates a manifest file
// summarizing the export results.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ownerID string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: playlist store not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playlist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	playlists := e.store.ListByOwner(ownerID)

	result := &BulkExportResult{
		TotalPlaylists:  len(playlists),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(playlists)),
	}

	jobs := make(chan PlaylistExportJob, len(playlists))
	results := make(chan PlaylistExportResult, len(playlists))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, playlist := range playlists {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			jobs <- PlaylistExportJob{Index: i, Playlist: playlist}
			e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(playlists), playlist.Name))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++

		if res.Error != nil {
			res.ErrorMessage = res.Error.Error()
		}
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(playlists), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, len(playlists), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	e.sendProgress(prog, writeManifestUpdate(manifestPath))

	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PlaylistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- exportSinglePlaylist(job, opts)
	}
}

// exportSinglePlaylist exports a single playlist to the appropriate format.
func exportSinglePlaylist(j PlaylistExportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   j.Playlist.ID,
		PlaylistName: j.Playlist.Name,
		Success:      false,
		Files:        []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.Playlist.ID)
		csvRes, err := formatter.WriteCSVExport(j.Playlist, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.TracksFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown", "md":
		data, err := formatter.ExportToMarkdown(j.Playlist)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		mdPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.md", j.Playlist.ID))
		if err := os.WriteFile(mdPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("markdown write failed: %w", err)
			return result
		}
		result.Files = []string{mdPath}
		result.Success = true

	case "txt", "text":
		data, err := formatter.ExportToText(j.Playlist)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_tracks.txt", j.Playlist.ID))
		if err := os.WriteFile(txtPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("text write failed: %w", err)
			return result
		}
		result.Files = []string{txtPath}
		result.Success = true

	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Playlist.ID))
		data, err := json.MarshalIndent(j.Playlist, "", "  ")
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
