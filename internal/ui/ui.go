package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/services"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	ItemListView
)

// Model represents the TUI application state.
type Model struct {
	ctx              context.Context
	view             ViewState
	library          services.Library
	width            int
	height           int
	playlistList     list.Model
	playlists        []models.Playlist
	itemList         list.Model
	selectedPlaylist *models.Playlist
	err              error
	help             help.Model
	keys             keyMap
}

type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

type itemsFetchedMsg struct {
	playlist models.Playlist
	items    []models.PlaylistItem
	err      error
}

// NewModel creates a new TUI model over the given library.
func NewModel(ctx context.Context, library services.Library) *Model {
	return &Model{
		ctx:     ctx,
		view:    PlaylistListView,
		library: library,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the account's playlists.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// The first size message usually lands before the playlist fetch
		// completes; the lists pick up the stored dimensions when built.
		m.width = msg.Width
		m.height = msg.Height
		if m.playlists != nil {
			m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.selectedPlaylist != nil {
			m.itemList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case ItemListView:
			return m.handleItemListKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.playlists = msg.playlists
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistEntry{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = "YouTube Playlists"
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case itemsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlaylistListView
			return m, nil
		}
		m.selectedPlaylist = &msg.playlist
		entries := make([]list.Item, len(msg.items))
		for i, item := range msg.items {
			entries[i] = videoEntry{item: item}
		}
		m.itemList = list.New(entries, list.NewDefaultDelegate(), 0, 0)
		m.itemList.Title = fmt.Sprintf("Videos in '%s'", msg.playlist.Title)
		m.itemList.SetSize(m.width-4, m.height-8)
		m.view = ItemListView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderPlaylistList()
	case ItemListView:
		return m.renderItemList()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if m.playlists == nil {
			return m, nil
		}
		selected := m.playlistList.SelectedItem()
		if selected != nil {
			if entry, ok := selected.(playlistEntry); ok {
				return m, m.fetchItems(entry.playlist)
			}
		}
	}

	if m.playlists == nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleItemListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = PlaylistListView
		return m, nil
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		if m.playlists == nil {
			return m, nil
		}
		m.playlistList, cmd = m.playlistList.Update(msg)
	case ItemListView:
		if m.selectedPlaylist == nil {
			return m, nil
		}
		m.itemList, cmd = m.itemList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.library.Playlists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) fetchItems(playlist models.Playlist) tea.Cmd {
	return func() tea.Msg {
		items, err := m.library.PlaylistItems(m.ctx, playlist.ID)
		return itemsFetchedMsg{playlist: playlist, items: items, err: err}
	}
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderItemList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.itemList.View(), helpView)
}
