// package tasks implements playlist collection and export operations.
//
// The core abstraction is CollectEngine, which orchestrates full-library
// collection passes and bulk exports. Operations emit progress updates via
// channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/services"
	"github.com/desertthunder/ytls/internal/shared"
)

// CollectOpts tunes a collection pass.
type CollectOpts struct {
	// KeepGoing records playlists whose items could not be fetched and
	// continues with the rest instead of aborting on the first failure.
	KeepGoing bool

	// Details resolves per-video metadata (channel titles) with an extra
	// batched lookup per playlist.
	Details bool
}

// CollectEngine defines the long-running operations over a library.
type CollectEngine interface {
	// Stream fetches every playlist and its items in server order, handing each
	// fully collected playlist to fn as soon as it is complete.
	Stream(ctx context.Context, progress chan<- ProgressUpdate, opts CollectOpts, fn func(models.CollectedPlaylist) error) (*models.Report, error)

	// Collect fetches every playlist and its items, buffered into a report.
	Collect(ctx context.Context, progress chan<- ProgressUpdate, opts CollectOpts) (*models.Report, error)

	// ExportAll writes every collected playlist to disk using a worker pool.
	ExportAll(ctx context.Context, progress chan<- ProgressUpdate, report *models.Report, opts ExportOpts) (*models.ExportResult, error)

	// SaveReport persists every collected playlist through saver.
	SaveReport(progress chan<- ProgressUpdate, report *models.Report, saver PlaylistSaver) error

	// ImportFiles records videos linked from the given text files.
	ImportFiles(ctx context.Context, progress chan<- ProgressUpdate, paths []string, recorder VideoRecorder) (*models.ImportResult, error)
}

// PlaylistSaver persists a single collected playlist. Implemented by
// repositories.Cache.
type PlaylistSaver interface {
	SavePlaylist(collected models.CollectedPlaylist) error
}

// PlaylistEngine implements CollectEngine against a services.Library.
type PlaylistEngine struct {
	library services.Library
}

// NewPlaylistEngine creates a new PlaylistEngine with the provided library.
func NewPlaylistEngine(library services.Library) *PlaylistEngine {
	return &PlaylistEngine{library: library}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Collect performs a full collection pass, buffering every playlist into the
// returned report.
func (e *PlaylistEngine) Collect(ctx context.Context, progress chan<- ProgressUpdate, opts CollectOpts) (*models.Report, error) {
	return e.Stream(ctx, progress, opts, nil)
}

// Stream performs a full collection pass over the authenticated library.
//
// Playlists and their items are fetched sequentially, preserving the order the
// server returns them in. Each playlist is handed to fn (when non-nil) as soon
// as its items are fully collected, so callers can print incrementally without
// waiting for the whole pass. The first item fetch failure aborts the pass
// unless opts.KeepGoing is set, in which case the playlist is recorded as
// skipped and collection moves on.
func (e *PlaylistEngine) Stream(ctx context.Context, progress chan<- ProgressUpdate, opts CollectOpts, fn func(models.CollectedPlaylist) error) (*models.Report, error) {
	if e.library == nil {
		return nil, fmt.Errorf("%w: library service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchPlaylistsUpdate(e.library.Name()))

	playlists, err := e.library.Playlists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrFetchFailed, err)
	}

	e.sendProgress(progress, foundPlaylistsUpdate(playlists))

	report := &models.Report{
		Playlists: make([]models.CollectedPlaylist, 0, len(playlists)),
	}

	total := len(playlists)
	for i, pl := range playlists {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.sendProgress(progress, fetchItemsUpdate(i+1, total, pl))

		items, err := e.library.PlaylistItems(ctx, pl.ID)
		if err != nil {
			if !opts.KeepGoing {
				return nil, fmt.Errorf("%w: playlist %s (%s): %w", shared.ErrFetchFailed, pl.Title, pl.ID, err)
			}
			e.sendProgress(progress, skippedPlaylistUpdate(i+1, total, pl, err))
			report.Skipped = append(report.Skipped, models.SkippedPlaylist{
				Playlist: pl,
				Reason:   err.Error(),
			})
			continue
		}

		if opts.Details && len(items) > 0 {
			items = e.resolveDetails(ctx, progress, items)
		}

		collected := models.CollectedPlaylist{Playlist: pl, Items: items}
		if fn != nil {
			if err := fn(collected); err != nil {
				return nil, err
			}
		}

		report.Playlists = append(report.Playlists, collected)
	}

	return report, nil
}

// SaveReport caches every collected playlist through saver, one progress
// update per playlist.
func (e *PlaylistEngine) SaveReport(progress chan<- ProgressUpdate, report *models.Report, saver PlaylistSaver) error {
	if report == nil {
		return fmt.Errorf("%w: nil report", shared.ErrInvalidInput)
	}
	if saver == nil {
		return fmt.Errorf("%w: nil saver", shared.ErrInvalidInput)
	}

	total := len(report.Playlists)
	for i, collected := range report.Playlists {
		e.sendProgress(progress, savePlaylistUpdate(i+1, total, collected.Playlist))
		if err := saver.SavePlaylist(collected); err != nil {
			return err
		}
	}

	return nil
}

// resolveDetails annotates items with channel titles from the videos endpoint.
//
// Detail lookups are best-effort: a failed batch leaves the items unannotated
// rather than failing the collection.
func (e *PlaylistEngine) resolveDetails(ctx context.Context, progress chan<- ProgressUpdate, items []models.PlaylistItem) []models.PlaylistItem {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.VideoID != "" {
			ids = append(ids, item.VideoID)
		}
	}

	e.sendProgress(progress, fetchDetailsUpdate(len(ids)))

	details, err := e.library.VideoDetails(ctx, ids)
	if err != nil {
		return items
	}

	for i, item := range items {
		if detail, ok := details[item.VideoID]; ok {
			items[i].Channel = detail.ChannelTitle
		}
	}

	return items
}
