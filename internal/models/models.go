// package models defines the data model for the playlist collector
package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the collector cache.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Playlist represents a playlist owned by the authenticated channel.
type Playlist struct {
	ID          string    `json:"id"`
	ETag        string    `json:"etag,omitempty"`
	ChannelID   string    `json:"channel_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ItemCount   int       `json:"item_count"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// PlaylistItem represents a video's membership in a playlist.
//
// Position is assigned by the server and unique within the parent playlist; collected
// items are never re-sorted locally.
type PlaylistItem struct {
	ID         string `json:"id"`
	ETag       string `json:"etag,omitempty"`
	PlaylistID string `json:"playlist_id"`
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Channel    string `json:"channel,omitempty"`
	Position   int    `json:"position"`
}

// Video represents a standalone video recorded outside any playlist, e.g.
// from a file import.
type Video struct {
	ID           string    `json:"id"`
	ETag         string    `json:"etag,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	ChannelID    string    `json:"channel_id,omitempty"`
	ChannelTitle string    `json:"channel_title,omitempty"`
	PublishedAt  time.Time `json:"published_at,omitempty"`
}

// ImportResult summarizes a file import pass.
type ImportResult struct {
	FilesRead int     `json:"files_read"`
	Found     int     `json:"found"`
	Known     int     `json:"known"`
	Added     []Video `json:"added"`
}

// CollectedPlaylist pairs a playlist with its fully collected items, in server order.
type CollectedPlaylist struct {
	Playlist Playlist       `json:"playlist"`
	Items    []PlaylistItem `json:"items"`
}

// SkippedPlaylist records a playlist whose items could not be fetched.
type SkippedPlaylist struct {
	Playlist Playlist `json:"playlist"`
	Reason   string   `json:"reason"`
}

// Report is the result of a complete collection pass.
type Report struct {
	Playlists []CollectedPlaylist `json:"playlists"`
	Skipped   []SkippedPlaylist   `json:"skipped,omitempty"`
}

// ItemTotal returns the number of items across all collected playlists.
func (r Report) ItemTotal() int {
	total := 0
	for _, cp := range r.Playlists {
		total += len(cp.Items)
	}
	return total
}
