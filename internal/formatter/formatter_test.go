package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytls/internal/models"
	th "github.com/desertthunder/ytls/internal/testing"
)

func reportFixture() *models.Report {
	return &models.Report{
		Playlists: []models.CollectedPlaylist{
			{
				Playlist: models.Playlist{ID: "PL1", Title: "Favorites", ItemCount: 3},
				Items: []models.PlaylistItem{
					{ID: "i0", PlaylistID: "PL1", VideoID: "v0", Title: "First Video", Position: 0},
					{ID: "i1", PlaylistID: "PL1", VideoID: "v1", Title: "Second Video", Position: 1},
					{ID: "i2", PlaylistID: "PL1", VideoID: "v2", Title: "Third Video", Position: 2},
				},
			},
			{
				Playlist: models.Playlist{ID: "PL2", Title: "Watch Later"},
				Items:    []models.PlaylistItem{},
			},
		},
	}
}

func TestFormatReport(t *testing.T) {
	t.Run("lists numbered items under each playlist", func(t *testing.T) {
		output := FormatReport(reportFixture())

		lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
		want := []string{
			"Favorites (3 items)",
			"  1. First Video",
			"  2. Second Video",
			"  3. Third Video",
			"Watch Later (0 items)",
		}

		if len(lines) != len(want) {
			t.Fatalf("expected %d lines, got %d:\n%s", len(want), len(lines), output)
		}
		for i, line := range want {
			if lines[i] != line {
				t.Errorf("line %d: expected %q, got %q", i, line, lines[i])
			}
		}
	})

	t.Run("empty playlist lists nothing beneath it", func(t *testing.T) {
		output := FormatPlaylist(models.CollectedPlaylist{
			Playlist: models.Playlist{ID: "PL2", Title: "Watch Later"},
		})
		if output != "Watch Later (0 items)\n" {
			t.Errorf("unexpected output: %q", output)
		}
	})

	t.Run("skipped playlists are summarized", func(t *testing.T) {
		report := reportFixture()
		report.Skipped = []models.SkippedPlaylist{
			{Playlist: models.Playlist{ID: "PL3", Title: "Broken"}, Reason: "API quota exceeded"},
		}

		output := FormatReport(report)
		if !strings.Contains(output, "Skipped 1 playlists:") {
			t.Error("expected skipped summary header")
		}
		if !strings.Contains(output, "Broken: API quota exceeded") {
			t.Error("expected skipped playlist with reason")
		}
	})
}

func TestExports(t *testing.T) {
	collected := reportFixture().Playlists[0]

	t.Run("CSV", func(t *testing.T) {
		data, err := ExportToCSV(collected)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		content := string(data)
		if !strings.HasPrefix(content, "ID,Title,VideoID,Position,Channel\n") {
			t.Errorf("unexpected CSV header: %q", content)
		}
		if !strings.Contains(content, "i0,First Video,v0,0,") {
			t.Errorf("expected first item row, got %q", content)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		data, err := ExportToMarkdown(collected)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		content := string(data)
		if !strings.Contains(content, "# Favorites") {
			t.Error("expected playlist title heading")
		}
		if !strings.Contains(content, "1. First Video (`v0`)") {
			t.Errorf("expected numbered video entry, got %q", content)
		}
	})

	t.Run("Text", func(t *testing.T) {
		data, err := ExportToText(collected)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		content := string(data)
		if !strings.Contains(content, "Playlist: Favorites") {
			t.Error("expected playlist header")
		}
		if !strings.Contains(content, "3. Third Video") {
			t.Error("expected numbered items")
		}
	})
}

func TestWriteExports(t *testing.T) {
	collected := reportFixture().Playlists[0]

	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "PL1")
		result, err := WriteCSVExport(collected, base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, result.ItemsFile)
		th.AssertFileExists(t, result.MetadataFile)

		metadata := th.MustReadFile(t, result.MetadataFile)
		if !strings.Contains(metadata, `"Favorites"`) {
			t.Error("metadata missing playlist title")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "PL1")
		result, err := WriteMarkdownExport(collected, dir)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		th.AssertDirExists(t, result.Directory)
		if len(result.Files) != 1 {
			t.Fatalf("expected 1 file, got %d", len(result.Files))
		}
		th.AssertFileExists(t, result.Files[0])
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "PL1_items.txt")
		written, err := WriteTextExport(collected, path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		th.AssertFileExists(t, written)
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "PL1.json")
		written, err := WriteJSONExport(collected, path)
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}

		content := th.MustReadFile(t, written)
		if !strings.Contains(content, `"Favorites"`) {
			t.Error("JSON missing playlist title")
		}
		if !strings.Contains(content, `"v0"`) {
			t.Error("JSON missing item data")
		}
	})

	t.Run("WriteExportManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		result := &models.ExportResult{
			TotalPlaylists:    2,
			SuccessfulExports: 1,
			FailedExports:     1,
			OutputDirectory:   "exports",
			Results: []models.PlaylistExportResult{
				{PlaylistID: "PL1", PlaylistName: "Favorites", Success: true, Files: []string{"PL1.json"}},
				{PlaylistID: "PL2", PlaylistName: "Watch Later", Success: false, Error: errors.New("write failed")},
			},
		}

		if err := WriteExportManifest(result, "json", path); err != nil {
			t.Fatalf("WriteExportManifest failed: %v", err)
		}

		content := th.MustReadFile(t, path)
		for _, want := range []string{`"format": "json"`, `"total_playlists": 2`, `"status": "success"`, `"status": "failed"`, `"write failed"`} {
			if !strings.Contains(content, want) {
				t.Errorf("manifest missing %s", want)
			}
		}
	})
}
