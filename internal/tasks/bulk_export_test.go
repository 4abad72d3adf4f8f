package tasks

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GustavoTessaro/myplaylist/internal/models"
	"github.com/GustavoTessaro/myplaylist/internal/shared"
	"github.com/GustavoTessaro/myplaylist/internal/store"
	tu "github.com/GustavoTessaro/myplaylist/internal/testing"
)

const testOwner = "1"

func seedStore(t *testing.T, names []string) *store.PlaylistStore {
	t.Helper()

	playlists, err := store.NewPlaylistStore(store.NewMemoryPort(), shared.NewLogger(io.Discard))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	for _, name := range names {
		created, err := playlists.Create(testOwner, name)
		if err != nil {
			t.Fatalf("failed to seed playlist: %v", err)
		}

		track := models.Track{ID: "t-" + created.ID, Title: "Song for " + name, Artist: "Artist", Genre: "Rock", Year: "1999"}
		if err := playlists.AddTrack(created.ID, track); err != nil {
			t.Fatalf("failed to seed track: %v", err)
		}
	}

	return playlists
}

func TestBulkExport(t *testing.T) {
	t.Run("exports all playlists as JSON", func(t *testing.T) {
		playlists := seedStore(t, []string{"First", "Second", "Third"})
		engine := NewExportEngine(playlists)
		outputDir := filepath.Join(t.TempDir(), "export")

		result, err := engine.BulkExport(context.Background(), nil, testOwner, BulkExportOpts{
			Format:    "json",
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.TotalPlaylists != 3 || result.SuccessfulExports != 3 || result.FailedExports != 0 {
			t.Errorf("unexpected result counts: %+v", result)
		}
		tu.AssertDirExists(t, outputDir)

		for _, res := range result.Results {
			if len(res.Files) != 1 {
				t.Errorf("expected one file for %s, got %v", res.PlaylistName, res.Files)
				continue
			}
			if _, err := os.Stat(res.Files[0]); err != nil {
				t.Errorf("missing export file %s: %v", res.Files[0], err)
			}
		}
	})

	t.Run("writes a manifest", func(t *testing.T) {
		playlists := seedStore(t, []string{"Only"})
		engine := NewExportEngine(playlists)
		outputDir := filepath.Join(t.TempDir(), "export")

		result, err := engine.BulkExport(context.Background(), nil, testOwner, BulkExportOpts{
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.ManifestPath == "" {
			t.Fatal("expected manifest path to be set")
		}

		data, err := os.ReadFile(result.ManifestPath)
		if err != nil {
			t.Fatalf("failed to read manifest: %v", err)
		}

		var manifest BulkExportResult
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("failed to parse manifest: %v", err)
		}
		if manifest.TotalPlaylists != 1 || manifest.SuccessfulExports != 1 {
			t.Errorf("unexpected manifest: %+v", manifest)
		}
	})

	t.Run("exports CSV with metadata files", func(t *testing.T) {
		playlists := seedStore(t, []string{"Csv"})
		engine := NewExportEngine(playlists)
		outputDir := filepath.Join(t.TempDir(), "export")

		result, err := engine.BulkExport(context.Background(), nil, testOwner, BulkExportOpts{
			Format:    "csv",
			OutputDir: outputDir,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		files := result.Results[0].Files
		if len(files) != 2 {
			t.Fatalf("expected tracks and metadata files, got %v", files)
		}
		if !strings.HasSuffix(files[0], "_tracks.csv") || !strings.HasSuffix(files[1], "_metadata.json") {
			t.Errorf("unexpected file names: %v", files)
		}
	})

	t.Run("reports progress", func(t *testing.T) {
		playlists := seedStore(t, []string{"One", "Two"})
		engine := NewExportEngine(playlists)
		prog := make(chan ProgressUpdate, 50)

		_, err := engine.BulkExport(context.Background(), prog, testOwner, BulkExportOpts{
			OutputDir: filepath.Join(t.TempDir(), "export"),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(prog)

		var phases []Phase
		for update := range prog {
			phases = append(phases, update.Phase)
		}

		if len(phases) == 0 {
			t.Fatal("expected progress updates")
		}
		if phases[len(phases)-1] != WriteManifest {
			t.Errorf("expected final update to be manifest write, got %v", phases[len(phases)-1])
		}
	})

	t.Run("empty owner exports nothing", func(t *testing.T) {
		playlists := seedStore(t, []string{"Someone Else's"})
		engine := NewExportEngine(playlists)

		result, err := engine.BulkExport(context.Background(), nil, "other-owner", BulkExportOpts{
			OutputDir: filepath.Join(t.TempDir(), "export"),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.TotalPlaylists != 0 || len(result.Results) != 0 {
			t.Errorf("expected empty result, got %+v", result)
		}
	})
}
