// Package services implements typed clients for the YouTube Data API v3.
//
// # Library Interface
//
// The [Library] interface defines the read operations the collector needs:
// listing the authenticated account's playlists and the items of a playlist.
// [YouTubeService] is the production implementation; tests substitute doubles.
//
// # Pagination
//
// Every listing endpoint is paginated. A [Cursor] is a tagged value that is
// either "continue from this page token" or "done"; page methods return the
// cursor for the next page and loops terminate when [Cursor.Done] reports true.
// The zero Cursor addresses the first page.
//
// # Quota
//
// All requests pass through a [rate.Limiter] so that full-account collection
// stays inside the Data API quota. Quota rejections surface as
// [shared.ErrQuotaExceeded]; expired credentials as [shared.ErrTokenExpired].
package services
