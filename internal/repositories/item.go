package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
)

// ItemRepository implements models.Repository[*models.PersistedItem] for playlist item caching.
type ItemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new ItemRepository with the given database connection
func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new item row with generated ID and sequence
func (r *ItemRepository) Create(item *models.PersistedItem) error {
	sequence, err := NextSequence(r.db, "playlist_items")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	item.SetID(shared.GenerateID())
	item.SetSequence(sequence)

	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlist_items (id, sequence, item_id, etag, playlist_id, video_id, title, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		item.ID(),
		item.Sequence(),
		item.ItemID(),
		item.ETag(),
		item.PlaylistID(),
		item.VideoID(),
		item.Title(),
		item.Position(),
		item.CreatedAt(),
		item.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist item: %w", err)
	}

	return nil
}

// Get retrieves an item row by its internal ID
func (r *ItemRepository) Get(id string) (*models.PersistedItem, error) {
	query := selectItems + ` WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByItemID retrieves an item row by its YouTube playlist item ID
func (r *ItemRepository) GetByItemID(itemID string) (*models.PersistedItem, error) {
	query := selectItems + ` WHERE item_id = ?`
	return r.scanOne(r.db.QueryRow(query, itemID))
}

// Update modifies an existing item row
func (r *ItemRepository) Update(item *models.PersistedItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	item.SetUpdatedAt(now)

	query := `
		UPDATE playlist_items
		SET etag = ?, video_id = ?, title = ?, position = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		item.ETag(),
		item.VideoID(),
		item.Title(),
		item.Position(),
		now,
		item.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist item not found: %s", item.ID())
	}

	return nil
}

// Delete removes an item row by its internal ID
func (r *ItemRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM playlist_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist item not found: %s", id)
	}

	return nil
}

// DeleteByPlaylist removes every cached item of a playlist.
//
// Used before re-caching a playlist so removed videos do not linger.
func (r *ItemRepository) DeleteByPlaylist(playlistID string) error {
	if _, err := r.db.Exec(`DELETE FROM playlist_items WHERE playlist_id = ?`, playlistID); err != nil {
		return fmt.Errorf("failed to clear playlist items: %w", err)
	}
	return nil
}

// List retrieves all item rows matching the given criteria
func (r *ItemRepository) List(criteria map[string]any) ([]*models.PersistedItem, error) {
	query := selectItems + ` WHERE 1=1`
	args := []any{}

	if playlistID, ok := criteria["playlist_id"].(string); ok && playlistID != "" {
		query += " AND playlist_id = ?"
		args = append(args, playlistID)
	}

	if videoID, ok := criteria["video_id"].(string); ok && videoID != "" {
		query += " AND video_id = ?"
		args = append(args, videoID)
	}

	query += " ORDER BY playlist_id ASC, position ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist items: %w", err)
	}
	defer rows.Close()

	var items []*models.PersistedItem
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// ListByPlaylist retrieves the cached items of a playlist in position order
func (r *ItemRepository) ListByPlaylist(playlistID string) ([]*models.PersistedItem, error) {
	return r.List(map[string]any{"playlist_id": playlistID})
}

const selectItems = `
	SELECT id, sequence, item_id, etag, playlist_id, video_id, title, position, created_at, updated_at
	FROM playlist_items`

// scanOne scans a single row into a [models.PersistedItem]
func (r *ItemRepository) scanOne(row *sql.Row) (*models.PersistedItem, error) {
	item, err := scanItem(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playlist item not cached")
	}
	return item, err
}

// scanItem rebuilds a [models.PersistedItem] from a row scanner
func scanItem(scan func(dest ...any) error) (*models.PersistedItem, error) {
	var (
		id         string
		sequence   int
		itemID     string
		etag       string
		playlistID string
		videoID    string
		title      string
		position   int
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := scan(&id, &sequence, &itemID, &etag, &playlistID, &videoID, &title, &position, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist item: %w", err)
	}

	item := &models.PersistedItem{}
	item.Restore(id, sequence, itemID, etag, playlistID, videoID, title, position)
	item.SetTimestamps(createdAt, updatedAt)

	return item, nil
}
