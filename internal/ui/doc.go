// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for browsing the collected library:
//  1. [PlaylistListView] : Browse the account's playlists
//  2. [ItemListView] : Inspect the videos of a selected playlist
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Item lists are fetched on demand through the services.Library interface, so the
// same model works against the live API or the local cache.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
