package tasks

import (
	"fmt"

	"github.com/desertthunder/ytls/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylists Phase = iota
	FetchItems
	FetchDetails
	SavePlaylists
	ExportPlaylist
	ImportVideos
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchItems:
		return "fetch_items"
	case FetchDetails:
		return "fetch_details"
	case SavePlaylists:
		return "save_playlists"
	case ExportPlaylist:
		return "export_playlist"
	case ImportVideos:
		return "import_videos"
	default:
		return ""
	}
}

func fetchPlaylistsUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlists from %s...", name),
	}
}

func foundPlaylistsUpdate(playlists []models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d playlists", len(playlists)),
		Data:    playlists,
	}
}

func fetchItemsUpdate(step, total int, pl models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s (%d items)", step, total, pl.Title, pl.ItemCount),
		Data:    pl,
	}
}

func skippedPlaylistUpdate(step, total int, pl models.Playlist, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, pl.Title, err),
	}
}

func fetchDetailsUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving details for %d videos...", count),
	}
}

func savePlaylistUpdate(step, total int, pl models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SavePlaylists,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Caching: %s", step, total, pl.Title),
	}
}

func importFileUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportVideos,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Scanning: %s", step, total, path),
	}
}

func importedVideosUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportVideos,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recorded %d new videos", count),
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
