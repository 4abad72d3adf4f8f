package tasks

import (
	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/store"
)

// PlaylistExportResult represents the outcome of exporting a single playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// BulkExportResult contains all data from a bulk export operation.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"manifest_path,omitempty"`
	Results           []PlaylistExportResult `json:"results"`
}

// PlaylistExportJob is a unit of work for the export worker pool.
type PlaylistExportJob struct {
	Index    int
	Playlist models.Playlist
}

// ExportEngine walks the playlist store and writes playlists to disk.
type ExportEngine struct {
	store *store.PlaylistStore
}

// NewExportEngine creates an ExportEngine around the given store.
func NewExportEngine(playlists *store.PlaylistStore) *ExportEngine {
	return &ExportEngine{store: playlists}
}

// sendProgress emits an update without blocking when nobody is listening.
func (e *ExportEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}

	select {
	case prog <- update:
	default:
	}
}
