// Package models defines domain entities and persistence interfaces for the ytls playlist collector.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing Data API responses
//   - [Playlist] : Playlist metadata from the playlists.list endpoint
//   - [PlaylistItem] : A member video with its server-assigned position
//   - [CollectedPlaylist] : A playlist paired with its fully collected items
//   - [Report] : The complete collection result, including skipped playlists
//
// 2. Persistent Entities: Database-backed models for the local cache
//   - [PersistedPlaylist] : Cached playlist rows
//   - [PersistedItem] : Cached playlist item rows
//
// Persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
