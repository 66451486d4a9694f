package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
)

// VideoRepository implements models.Repository[*models.PersistedVideo] for
// standalone video records.
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new VideoRepository with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new video row with generated ID and sequence
func (r *VideoRepository) Create(video *models.PersistedVideo) error {
	sequence, err := NextSequence(r.db, "videos")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	video.SetID(shared.GenerateID())
	video.SetSequence(sequence)

	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO videos (id, sequence, video_id, etag, title, description, channel_id, channel_title, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		video.ID(),
		video.Sequence(),
		video.VideoID(),
		video.ETag(),
		video.Title(),
		video.Description(),
		video.ChannelID(),
		video.ChannelTitle(),
		video.PublishedAt(),
		video.CreatedAt(),
		video.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// Get retrieves a video row by its internal ID
func (r *VideoRepository) Get(id string) (*models.PersistedVideo, error) {
	query := selectVideos + ` WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByVideoID retrieves a video row by its YouTube video ID
func (r *VideoRepository) GetByVideoID(videoID string) (*models.PersistedVideo, error) {
	query := selectVideos + ` WHERE video_id = ?`
	return r.scanOne(r.db.QueryRow(query, videoID))
}

// Exists reports whether a video with the given YouTube video ID is recorded
func (r *VideoRepository) Exists(videoID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM videos WHERE video_id = ?)`, videoID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check video: %w", err)
	}
	return exists, nil
}

// Update modifies an existing video row
func (r *VideoRepository) Update(video *models.PersistedVideo) error {
	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	video.SetUpdatedAt(now)

	query := `
		UPDATE videos
		SET etag = ?, title = ?, description = ?, channel_id = ?, channel_title = ?, published_at = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		video.ETag(),
		video.Title(),
		video.Description(),
		video.ChannelID(),
		video.ChannelTitle(),
		video.PublishedAt(),
		now,
		video.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("video not found: %s", video.ID())
	}

	return nil
}

// Delete removes a video row by its internal ID
func (r *VideoRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("video not found: %s", id)
	}

	return nil
}

// List retrieves all video rows matching the given criteria
func (r *VideoRepository) List(criteria map[string]any) ([]*models.PersistedVideo, error) {
	query := selectVideos + ` WHERE 1=1`
	args := []any{}

	if channelID, ok := criteria["channel_id"].(string); ok && channelID != "" {
		query += " AND channel_id = ?"
		args = append(args, channelID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.PersistedVideo
	for rows.Next() {
		video, err := scanVideo(rows.Scan)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return videos, nil
}

const selectVideos = `
	SELECT id, sequence, video_id, etag, title, description, channel_id, channel_title, published_at, created_at, updated_at
	FROM videos`

// scanOne scans a single row into a [models.PersistedVideo]
func (r *VideoRepository) scanOne(row *sql.Row) (*models.PersistedVideo, error) {
	video, err := scanVideo(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video not recorded")
	}
	return video, err
}

// scanVideo rebuilds a [models.PersistedVideo] from a row scanner
func scanVideo(scan func(dest ...any) error) (*models.PersistedVideo, error) {
	var (
		id           string
		sequence     int
		videoID      string
		etag         string
		title        string
		description  string
		channelID    string
		channelTitle string
		publishedAt  time.Time
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := scan(&id, &sequence, &videoID, &etag, &title, &description, &channelID, &channelTitle, &publishedAt, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	video := &models.PersistedVideo{}
	video.Restore(id, sequence, videoID, etag, title, description, channelID, channelTitle, publishedAt)
	video.SetTimestamps(createdAt, updatedAt)

	return video, nil
}
