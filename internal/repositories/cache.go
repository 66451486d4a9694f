package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/ytls/internal/models"
)

// Cache bundles the playlist, item, and video repositories behind
// report-level operations.
type Cache struct {
	playlists *PlaylistRepository
	items     *ItemRepository
	videos    *VideoRepository
}

// NewCache creates a Cache over the given database connection.
func NewCache(db *sql.DB) *Cache {
	return &Cache{
		playlists: NewPlaylistRepository(db),
		items:     NewItemRepository(db),
		videos:    NewVideoRepository(db),
	}
}

// Playlists exposes the underlying playlist repository.
func (c *Cache) Playlists() *PlaylistRepository { return c.playlists }

// Items exposes the underlying item repository.
func (c *Cache) Items() *ItemRepository { return c.items }

// Videos exposes the underlying video repository.
func (c *Cache) Videos() *VideoRepository { return c.videos }

// SaveReport caches every collected playlist and its items.
//
// Playlists are upserted on their YouTube IDs; each playlist's cached items
// are replaced wholesale so removed videos do not linger.
func (c *Cache) SaveReport(report *models.Report) error {
	for _, collected := range report.Playlists {
		if err := c.SavePlaylist(collected); err != nil {
			return err
		}
	}
	return nil
}

// SavePlaylist caches a single collected playlist and its items.
func (c *Cache) SavePlaylist(collected models.CollectedPlaylist) error {
	row := models.NewPersistedPlaylist(collected.Playlist)
	row.SetItemCount(len(collected.Items))

	if err := c.playlists.Upsert(row); err != nil {
		return fmt.Errorf("failed to cache playlist %s: %w", collected.Playlist.ID, err)
	}

	if err := c.items.DeleteByPlaylist(collected.Playlist.ID); err != nil {
		return err
	}

	for _, item := range collected.Items {
		if err := c.items.Create(models.NewPersistedItem(item)); err != nil {
			return fmt.Errorf("failed to cache item %s: %w", item.ID, err)
		}
	}

	return nil
}

// HasVideo reports whether a video is already recorded.
func (c *Cache) HasVideo(videoID string) (bool, error) {
	return c.videos.Exists(videoID)
}

// SaveVideo records a standalone video.
func (c *Cache) SaveVideo(video models.Video) error {
	if err := c.videos.Create(models.NewPersistedVideo(video)); err != nil {
		return fmt.Errorf("failed to record video %s: %w", video.ID, err)
	}
	return nil
}

// LoadReport rebuilds a report from the cache, playlists in cache order and
// items in position order.
func (c *Cache) LoadReport() (*models.Report, error) {
	rows, err := c.playlists.List(map[string]any{})
	if err != nil {
		return nil, err
	}

	report := &models.Report{Playlists: make([]models.CollectedPlaylist, 0, len(rows))}
	for _, row := range rows {
		itemRows, err := c.items.ListByPlaylist(row.PlaylistID())
		if err != nil {
			return nil, err
		}

		items := make([]models.PlaylistItem, 0, len(itemRows))
		for _, itemRow := range itemRows {
			items = append(items, itemRow.Item())
		}

		report.Playlists = append(report.Playlists, models.CollectedPlaylist{
			Playlist: row.Playlist(),
			Items:    items,
		})
	}

	return report, nil
}
