// package formatter renders collection reports and exports playlist data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
)

// FormatPlaylist renders a single collected playlist as report text.
//
// The playlist title is followed by an indented, position-numbered list of its
// items' titles. A playlist with no items lists nothing beneath it.
func FormatPlaylist(collected models.CollectedPlaylist) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s (%d items)\n", collected.Playlist.Title, len(collected.Items)))
	for _, item := range collected.Items {
		buf.WriteString(fmt.Sprintf("  %d. %s\n", item.Position+1, item.Title))
	}

	return buf.String()
}

// FormatReport renders a full collection report as human-readable text.
func FormatReport(report *models.Report) string {
	var buf bytes.Buffer

	for _, collected := range report.Playlists {
		buf.WriteString(FormatPlaylist(collected))
	}

	if len(report.Skipped) > 0 {
		buf.WriteString(fmt.Sprintf("\nSkipped %d playlists:\n", len(report.Skipped)))
		for _, skipped := range report.Skipped {
			buf.WriteString(fmt.Sprintf("  ✗ %s: %s\n", skipped.Playlist.Title, skipped.Reason))
		}
	}

	return buf.String()
}

// ExportToCSV converts a collected playlist to CSV format with columns: ID, Title, VideoID, Position, Channel
func ExportToCSV(collected models.CollectedPlaylist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "VideoID", "Position", "Channel"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range collected.Items {
		record := []string{
			item.ID,
			item.Title,
			item.VideoID,
			strconv.Itoa(item.Position),
			item.Channel,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a collected playlist to Markdown format
func ExportToMarkdown(collected models.CollectedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", collected.Playlist.Title))

	if collected.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", collected.Playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(collected.Items)))

	buf.WriteString("## Videos\n\n")
	for _, item := range collected.Items {
		channelPart := ""
		if item.Channel != "" {
			channelPart = fmt.Sprintf(" — %s", item.Channel)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s (`%s`)\n", item.Position+1, item.Title, channelPart, item.VideoID))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a collected playlist to plain text format
func ExportToText(collected models.CollectedPlaylist) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", collected.Playlist.Title))
	if collected.Playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", collected.Playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(collected.Items)))

	for _, item := range collected.Items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", item.Position+1, item.Title))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of playlist metadata (without items)
func ToMetadataJSON(playlist models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(playlist, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ItemsFile    string
	MetadataFile string
}

// WriteCSVExport exports a playlist to CSV format with accompanying metadata JSON file.
//
// Defaults to playlist ID as the base filename & creates {base}_items.csv and {base}_metadata.json
func WriteCSVExport(collected models.CollectedPlaylist, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = collected.Playlist.ID
	}

	csvData, err := ExportToCSV(collected)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	itemsFile := baseFilepath + "_items.csv"
	if err := os.WriteFile(itemsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(collected.Playlist)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ItemsFile:    itemsFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a playlist to Markdown format in a dedicated directory.
//
// Directory name defaults to the playlist ID. Creates {dir}/README.md.
func WriteMarkdownExport(collected models.CollectedPlaylist, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = collected.Playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	mdData, err := ExportToMarkdown(collected)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a playlist to plain text format.
//
// Defaults to {playlist.ID}_items.txt as the filename.
func WriteTextExport(collected models.CollectedPlaylist, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_items.txt", collected.Playlist.ID)
	}

	textData, err := ExportToText(collected)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport exports a playlist with its items to a JSON file.
//
// Defaults to {playlist.ID}.json as the filename.
func WriteJSONExport(collected models.CollectedPlaylist, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s.json", collected.Playlist.ID)
	}

	data, err := shared.MarshalJSON(collected, true)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// manifestEntry is the per-playlist record written to the export manifest.
type manifestEntry struct {
	PlaylistID   string   `json:"playlist_id"`
	PlaylistName string   `json:"playlist_name"`
	Status       string   `json:"status"`
	Files        []string `json:"files,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// exportManifest is the JSON document summarizing a bulk export run.
type exportManifest struct {
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	TotalPlaylists    int             `json:"total_playlists"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	OutputDirectory   string          `json:"output_directory"`
	Playlists         []manifestEntry `json:"playlists"`
}

// WriteExportManifest writes a JSON manifest summarizing a bulk export run.
func WriteExportManifest(result *models.ExportResult, format, filepath string) error {
	manifest := exportManifest{
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		TotalPlaylists:    result.TotalPlaylists,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		OutputDirectory:   result.OutputDirectory,
		Playlists:         make([]manifestEntry, 0, len(result.Results)),
	}

	for _, res := range result.Results {
		entry := manifestEntry{
			PlaylistID:   res.PlaylistID,
			PlaylistName: res.PlaylistName,
			Status:       "success",
			Files:        res.Files,
		}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		manifest.Playlists = append(manifest.Playlists, entry)
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
