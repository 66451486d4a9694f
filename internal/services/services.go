// package services defines interface Library for interacting with the Data API
package services

import (
	"context"
	"time"

	"github.com/desertthunder/ytls/internal/models"
)

// Library defines the read surface of a video service account.
type Library interface {
	// Playlists retrieves all playlists owned by the authenticated account, in server order.
	Playlists(ctx context.Context) ([]models.Playlist, error)

	// PlaylistsPage retrieves a single page of playlists starting at the cursor.
	PlaylistsPage(ctx context.Context, cur Cursor) ([]models.Playlist, Cursor, error)

	// PlaylistItems retrieves all items of a playlist, in server-assigned position order.
	PlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error)

	// PlaylistItemsPage retrieves a single page of playlist items starting at the cursor.
	PlaylistItemsPage(ctx context.Context, playlistID string, cur Cursor) ([]models.PlaylistItem, Cursor, error)

	// VideoDetails resolves video metadata for the given video IDs.
	VideoDetails(ctx context.Context, videoIDs []string) (map[string]VideoDetail, error)

	// Name returns the name of the service (e.g., "YouTube")
	Name() string
}

// VideoDetail carries per-video metadata from the videos.list endpoint.
type VideoDetail struct {
	ID           string    `json:"id"`
	ETag         string    `json:"etag,omitempty"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channel_id"`
	ChannelTitle string    `json:"channel_title"`
	Description  string    `json:"description,omitempty"`
	PublishedAt  time.Time `json:"published_at,omitempty"`
}

// Cursor marks a position in a paginated listing.
//
// A cursor is either "continue from this token" or "done"; the zero value
// addresses the first page of a listing.
type Cursor struct {
	token string
	done  bool
}

// Continue returns a cursor that resumes a listing at the given page token.
func Continue(token string) Cursor {
	return Cursor{token: token}
}

// cursorAfter derives the next cursor from a response's nextPageToken field.
// An absent token signals the end of the sequence.
func cursorAfter(nextPageToken string) Cursor {
	if nextPageToken == "" {
		return Cursor{done: true}
	}
	return Cursor{token: nextPageToken}
}

// Token returns the page token this cursor resumes from ("" for the first page).
func (c Cursor) Token() string { return c.token }

// Done reports whether the listing is exhausted.
func (c Cursor) Done() bool { return c.done }
