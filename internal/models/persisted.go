package models

import (
	"fmt"
	"time"
)

// PersistedPlaylist is a cached playlist row.
type PersistedPlaylist struct {
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
}

// NewPersistedPlaylist builds a cache row from a collected playlist.
func NewPersistedPlaylist(p Playlist) *PersistedPlaylist {
	now := time.Now()
	return &PersistedPlaylist{
		playlistID:  p.ID,
		etag:        p.ETag,
		channelID:   p.ChannelID,
		title:       p.Title,
		description: p.Description,
		itemCount:   p.ItemCount,
		publishedAt: p.PublishedAt,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (p *PersistedPlaylist) ID() string             { return p.id }
func (p *PersistedPlaylist) Sequence() int          { return p.sequence }
func (p *PersistedPlaylist) PlaylistID() string     { return p.playlistID }
func (p *PersistedPlaylist) ETag() string           { return p.etag }
func (p *PersistedPlaylist) ChannelID() string      { return p.channelID }
func (p *PersistedPlaylist) Title() string          { return p.title }
func (p *PersistedPlaylist) Description() string    { return p.description }
func (p *PersistedPlaylist) ItemCount() int         { return p.itemCount }
func (p *PersistedPlaylist) PublishedAt() time.Time { return p.publishedAt }
func (p *PersistedPlaylist) CreatedAt() time.Time   { return p.createdAt }
func (p *PersistedPlaylist) UpdatedAt() time.Time   { return p.updatedAt }

func (p *PersistedPlaylist) SetID(id string)            { p.id = id }
func (p *PersistedPlaylist) SetSequence(seq int)        { p.sequence = seq }
func (p *PersistedPlaylist) SetItemCount(n int)         { p.itemCount = n }
func (p *PersistedPlaylist) SetUpdatedAt(t time.Time)   { p.updatedAt = t }
func (p *PersistedPlaylist) SetTimestamps(c, u time.Time) {
	p.createdAt = c
	p.updatedAt = u
}

// Restore rebuilds a row scanned from the database.
func (p *PersistedPlaylist) Restore(id string, seq int, playlistID, etag, channelID, title, description string, itemCount int, publishedAt time.Time) {
	p.id = id
	p.sequence = seq
	p.playlistID = playlistID
	p.etag = etag
	p.channelID = channelID
	p.title = title
	p.description = description
	p.itemCount = itemCount
	p.publishedAt = publishedAt
}

// Validate checks required fields before persistence.
func (p *PersistedPlaylist) Validate() error {
	if p.id == "" {
		return fmt.Errorf("playlist row missing id")
	}
	if p.playlistID == "" {
		return fmt.Errorf("playlist row missing playlist_id")
	}
	if p.title == "" {
		return fmt.Errorf("playlist row missing title")
	}
	return nil
}

// Playlist converts the row back to its DTO form.
func (p *PersistedPlaylist) Playlist() Playlist {
	return Playlist{
		ID:          p.playlistID,
		ETag:        p.etag,
		ChannelID:   p.channelID,
		Title:       p.title,
		Description: p.description,
		ItemCount:   p.itemCount,
		PublishedAt: p.publishedAt,
	}
}

// PersistedItem is a cached playlist item row.
type PersistedItem struct {
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
}

// NewPersistedItem builds a cache row from a collected playlist item.
func NewPersistedItem(item PlaylistItem) *PersistedItem {
	now := time.Now()
	return &PersistedItem{
		itemID:     item.ID,
		etag:       item.ETag,
		playlistID: item.PlaylistID,
		videoID:    item.VideoID,
		title:      item.Title,
		position:   item.Position,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (i *PersistedItem) ID() string           { return i.id }
func (i *PersistedItem) Sequence() int        { return i.sequence }
func (i *PersistedItem) ItemID() string       { return i.itemID }
func (i *PersistedItem) ETag() string         { return i.etag }
func (i *PersistedItem) PlaylistID() string   { return i.playlistID }
func (i *PersistedItem) VideoID() string      { return i.videoID }
func (i *PersistedItem) Title() string        { return i.title }
func (i *PersistedItem) Position() int        { return i.position }
func (i *PersistedItem) CreatedAt() time.Time { return i.createdAt }
func (i *PersistedItem) UpdatedAt() time.Time { return i.updatedAt }

func (i *PersistedItem) SetID(id string)          { i.id = id }
func (i *PersistedItem) SetSequence(seq int)      { i.sequence = seq }
func (i *PersistedItem) SetUpdatedAt(t time.Time) { i.updatedAt = t }
func (i *PersistedItem) SetTimestamps(c, u time.Time) {
	i.createdAt = c
	i.updatedAt = u
}

// Restore rebuilds a row scanned from the database.
func (i *PersistedItem) Restore(id string, seq int, itemID, etag, playlistID, videoID, title string, position int) {
	i.id = id
	i.sequence = seq
	i.itemID = itemID
	i.etag = etag
	i.playlistID = playlistID
	i.videoID = videoID
	i.title = title
	i.position = position
}

// Validate checks required fields before persistence.
func (i *PersistedItem) Validate() error {
	if i.id == "" {
		return fmt.Errorf("item row missing id")
	}
	if i.itemID == "" {
		return fmt.Errorf("item row missing item_id")
	}
	if i.playlistID == "" {
		return fmt.Errorf("item row missing playlist_id")
	}
	if i.position < 0 {
		return fmt.Errorf("item row has negative position")
	}
	return nil
}

// Item converts the row back to its DTO form.
func (i *PersistedItem) Item() PlaylistItem {
	return PlaylistItem{
		ID:         i.itemID,
		ETag:       i.etag,
		PlaylistID: i.playlistID,
		VideoID:    i.videoID,
		Title:      i.title,
		Position:   i.position,
	}
}

// PersistedVideo is a standalone video row recorded by a file import.
type PersistedVideo struct {
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
}

// NewPersistedVideo builds a video row from its DTO form.
func NewPersistedVideo(v Video) *PersistedVideo {
	now := time.Now()
	return &PersistedVideo{
		videoID:      v.ID,
		etag:         v.ETag,
		title:        v.Title,
		description:  v.Description,
		channelID:    v.ChannelID,
		channelTitle: v.ChannelTitle,
		publishedAt:  v.PublishedAt,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (v *PersistedVideo) ID() string             { return v.id }
func (v *PersistedVideo) Sequence() int          { return v.sequence }
func (v *PersistedVideo) VideoID() string        { return v.videoID }
func (v *PersistedVideo) ETag() string           { return v.etag }
func (v *PersistedVideo) Title() string          { return v.title }
func (v *PersistedVideo) Description() string    { return v.description }
func (v *PersistedVideo) ChannelID() string      { return v.channelID }
func (v *PersistedVideo) ChannelTitle() string   { return v.channelTitle }
func (v *PersistedVideo) PublishedAt() time.Time { return v.publishedAt }
func (v *PersistedVideo) CreatedAt() time.Time   { return v.createdAt }
func (v *PersistedVideo) UpdatedAt() time.Time   { return v.updatedAt }

func (v *PersistedVideo) SetID(id string)        { v.id = id }
func (v *PersistedVideo) SetSequence(seq int)    { v.sequence = seq }
func (v *PersistedVideo) SetUpdatedAt(t time.Time) { v.updatedAt = t }
func (v *PersistedVideo) SetTimestamps(c, u time.Time) {
	v.createdAt = c
	v.updatedAt = u
}

// Restore rebuilds a row scanned from the database.
func (v *PersistedVideo) Restore(id string, seq int, videoID, etag, title, description, channelID, channelTitle string, publishedAt time.Time) {
	v.id = id
	v.sequence = seq
	v.videoID = videoID
	v.etag = etag
	v.title = title
	v.description = description
	v.channelID = channelID
	v.channelTitle = channelTitle
	v.publishedAt = publishedAt
}

// Validate checks required fields before persistence.
func (v *PersistedVideo) Validate() error {
	if v.id == "" {
		return fmt.Errorf("video row missing id")
	}
	if v.videoID == "" {
		return fmt.Errorf("video row missing video_id")
	}
	if v.title == "" {
		return fmt.Errorf("video row missing title")
	}
	return nil
}

// Video converts the row back to its DTO form.
func (v *PersistedVideo) Video() Video {
	return Video{
		ID:           v.videoID,
		ETag:         v.etag,
		Title:        v.title,
		Description:  v.description,
		ChannelID:    v.channelID,
		ChannelTitle: v.channelTitle,
		PublishedAt:  v.publishedAt,
	}
}
