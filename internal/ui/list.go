package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytls/internal/models"
)

var (
	_ list.Item = playlistEntry{}
	_ list.Item = videoEntry{}
)

// playlistEntry wraps [models.Playlist] to implement [list.Item].
type playlistEntry struct {
	playlist models.Playlist
}

func (e playlistEntry) FilterValue() string { return e.playlist.Title }
func (e playlistEntry) Title() string       { return e.playlist.Title }
func (e playlistEntry) Description() string {
	desc := fmt.Sprintf("%d items", e.playlist.ItemCount)
	if e.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, e.playlist.Description)
	}
	return desc
}

// videoEntry wraps [models.PlaylistItem] to implement [list.Item].
type videoEntry struct {
	item models.PlaylistItem
}

func (e videoEntry) FilterValue() string { return e.item.Title }
func (e videoEntry) Title() string       { return e.item.Title }
func (e videoEntry) Description() string {
	desc := fmt.Sprintf("#%d", e.item.Position+1)
	if e.item.Channel != "" {
		desc = fmt.Sprintf("%s • %s", desc, e.item.Channel)
	}
	return desc
}
