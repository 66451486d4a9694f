package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.PersistedPlaylist] for playlist caching.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new playlist row with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.PersistedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	playlist.SetID(shared.GenerateID())
	playlist.SetSequence(sequence)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (id, sequence, playlist_id, etag, channel_id, title, description, item_count, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		playlist.ID(),
		playlist.Sequence(),
		playlist.PlaylistID(),
		playlist.ETag(),
		playlist.ChannelID(),
		playlist.Title(),
		playlist.Description(),
		playlist.ItemCount(),
		playlist.PublishedAt(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist row by its internal ID
func (r *PlaylistRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := selectPlaylists + ` WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByPlaylistID retrieves a playlist row by its YouTube playlist ID
func (r *PlaylistRepository) GetByPlaylistID(playlistID string) (*models.PersistedPlaylist, error) {
	query := selectPlaylists + ` WHERE playlist_id = ?`
	return r.scanOne(r.db.QueryRow(query, playlistID))
}

// Update modifies an existing playlist row
func (r *PlaylistRepository) Update(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	query := `
		UPDATE playlists
		SET etag = ?, channel_id = ?, title = ?, description = ?, item_count = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		playlist.ETag(),
		playlist.ChannelID(),
		playlist.Title(),
		playlist.Description(),
		playlist.ItemCount(),
		playlist.PublishedAt(),
		now,
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found: %s", playlist.ID())
	}

	return nil
}

// Upsert inserts the playlist or, when a row with the same YouTube playlist ID
// exists, refreshes that row in place. Repeated collection passes keep a single
// row per remote playlist.
func (r *PlaylistRepository) Upsert(playlist *models.PersistedPlaylist) error {
	existing, err := r.GetByPlaylistID(playlist.PlaylistID())
	if err != nil {
		return r.Create(playlist)
	}

	playlist.SetID(existing.ID())
	playlist.SetSequence(existing.Sequence())
	return r.Update(playlist)
}

// Delete removes a playlist row by its internal ID
func (r *PlaylistRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found: %s", id)
	}

	return nil
}

// List retrieves all playlist rows matching the given criteria
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := selectPlaylists + ` WHERE 1=1`
	args := []any{}

	if channelID, ok := criteria["channel_id"].(string); ok && channelID != "" {
		query += " AND channel_id = ?"
		args = append(args, channelID)
	}

	if title, ok := criteria["title"].(string); ok && title != "" {
		query += " AND title = ?"
		args = append(args, title)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.PersistedPlaylist
	for rows.Next() {
		playlist, err := scanPlaylist(rows.Scan)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

const selectPlaylists = `
	SELECT id, sequence, playlist_id, etag, channel_id, title, description, item_count, published_at, created_at, updated_at
	FROM playlists`

// scanOne scans a single row into a [models.PersistedPlaylist]
func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.PersistedPlaylist, error) {
	playlist, err := scanPlaylist(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: not cached", shared.ErrPlaylistNotFound)
	}
	return playlist, err
}

// scanPlaylist rebuilds a [models.PersistedPlaylist] from a row scanner
func scanPlaylist(scan func(dest ...any) error) (*models.PersistedPlaylist, error) {
	var (
		id          string
		sequence    int
		playlistID  string
		etag        string
		channelID   string
		title       string
		description string
		itemCount   int
		publishedAt time.Time
		createdAt   time.Time
		updatedAt   time.Time
	)

	err := scan(&id, &sequence, &playlistID, &etag, &channelID, &title, &description, &itemCount, &publishedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist := &models.PersistedPlaylist{}
	playlist.Restore(id, sequence, playlistID, etag, channelID, title, description, itemCount, publishedAt)
	playlist.SetTimestamps(createdAt, updatedAt)

	return playlist, nil
}
