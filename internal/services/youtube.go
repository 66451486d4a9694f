// YouTube Data API v3 [Library] implementation
//
// Endpoint and parameter reference: https://developers.google.com/youtube/v3/docs
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ytls/internal/models"
	"github.com/desertthunder/ytls/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

	// Server-defined page size ceiling for list endpoints.
	maxPageSize = 50

	// videos.list accepts at most 50 IDs per call.
	videoBatchSize = 50
)

type pageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

type playlistSnippet struct {
	PublishedAt time.Time `json:"publishedAt"`
	ChannelID   string    `json:"channelId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

type playlistContentDetails struct {
	ItemCount int `json:"itemCount"`
}

type playlistResource struct {
	ETag           string                 `json:"etag"`
	ID             string                 `json:"id"`
	Snippet        playlistSnippet        `json:"snippet"`
	ContentDetails playlistContentDetails `json:"contentDetails"`
}

type playlistListResponse struct {
	Items         []playlistResource `json:"items"`
	NextPageToken string             `json:"nextPageToken"`
	PageInfo      pageInfo           `json:"pageInfo"`
}

type playlistItemSnippet struct {
	PlaylistID        string `json:"playlistId"`
	Title             string `json:"title"`
	Position          int    `json:"position"`
	VideoOwnerChannel string `json:"videoOwnerChannelTitle"`
}

type playlistItemContentDetails struct {
	VideoID string `json:"videoId"`
}

type playlistItemResource struct {
	ETag           string                     `json:"etag"`
	ID             string                     `json:"id"`
	Snippet        playlistItemSnippet        `json:"snippet"`
	ContentDetails playlistItemContentDetails `json:"contentDetails"`
}

type playlistItemListResponse struct {
	Items         []playlistItemResource `json:"items"`
	NextPageToken string                 `json:"nextPageToken"`
	PageInfo      pageInfo               `json:"pageInfo"`
}

type videoSnippet struct {
	PublishedAt  time.Time `json:"publishedAt"`
	Title        string    `json:"title"`
	ChannelID    string    `json:"channelId"`
	ChannelTitle string    `json:"channelTitle"`
	Description  string    `json:"description"`
}

type videoResource struct {
	ETag    string       `json:"etag"`
	ID      string       `json:"id"`
	Snippet videoSnippet `json:"snippet"`
}

type videoListResponse struct {
	Items []videoResource `json:"items"`
}

// apiError mirrors the Data API error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// YouTubeOpts configures a YouTubeService.
type YouTubeOpts struct {
	BaseURL   string  // API base URL (default: googleapis.com/youtube/v3)
	PageSize  int     // maxResults per page (default and ceiling: 50)
	RateLimit float64 // requests per second (default: 5)
}

// YouTubeService implements the [Library] interface against the Data API.
//
// The HTTP client must already carry OAuth credentials (see internal/auth).
type YouTubeService struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a new Data API client around an authenticated HTTP client.
func NewYouTubeService(client *http.Client, opts YouTubeOpts) *YouTubeService {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultAPIBaseURL
	}
	if opts.PageSize <= 0 || opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	return &YouTubeService{
		baseURL:    opts.BaseURL,
		pageSize:   opts.PageSize,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter interrupted: %w", err)
	}

	apiURL := fmt.Sprintf("%s/%s?%s", y.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return y.decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError maps a non-2xx Data API response onto the shared error taxonomy.
func (y *YouTubeService) decodeError(resp *http.Response) error {
	var envelope apiError
	reason := ""
	message := ""
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		message = envelope.Error.Message
		if len(envelope.Error.Errors) > 0 {
			reason = envelope.Error.Errors[0].Reason
		}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status %d: %s", shared.ErrTokenExpired, resp.StatusCode, message)
	case reason == "quotaExceeded" || reason == "rateLimitExceeded":
		return fmt.Errorf("%w: %s", shared.ErrQuotaExceeded, message)
	case resp.StatusCode == http.StatusNotFound || reason == "playlistNotFound":
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, message)
	default:
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, message)
	}
}

// PlaylistsPage retrieves one page of the authenticated account's playlists.
//
// Calls GET /playlists with mine=true.
func (y *YouTubeService) PlaylistsPage(ctx context.Context, cur Cursor) ([]models.Playlist, Cursor, error) {
	if cur.Done() {
		return nil, cur, nil
	}

	query := url.Values{}
	query.Set("part", "snippet,contentDetails")
	query.Set("mine", "true")
	query.Set("maxResults", strconv.Itoa(y.pageSize))
	if cur.Token() != "" {
		query.Set("pageToken", cur.Token())
	}

	var response playlistListResponse
	if err := y.doRequest(ctx, "playlists", query, &response); err != nil {
		return nil, cur, err
	}

	playlists := make([]models.Playlist, len(response.Items))
	for i, item := range response.Items {
		playlists[i] = models.Playlist{
			ID:          item.ID,
			ETag:        item.ETag,
			ChannelID:   item.Snippet.ChannelID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			ItemCount:   item.ContentDetails.ItemCount,
			PublishedAt: item.Snippet.PublishedAt,
		}
	}

	return playlists, cursorAfter(response.NextPageToken), nil
}

// Playlists retrieves all playlists owned by the authenticated account.
//
// Pages are concatenated in response order; the server's ordering is preserved.
func (y *YouTubeService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var all []models.Playlist

	for cur := (Cursor{}); !cur.Done(); {
		page, next, err := y.PlaylistsPage(ctx, cur)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		cur = next
	}

	return all, nil
}

// PlaylistItemsPage retrieves one page of a playlist's items.
//
// Calls GET /playlistItems scoped to the playlist ID.
func (y *YouTubeService) PlaylistItemsPage(ctx context.Context, playlistID string, cur Cursor) ([]models.PlaylistItem, Cursor, error) {
	if playlistID == "" {
		return nil, cur, fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}
	if cur.Done() {
		return nil, cur, nil
	}

	query := url.Values{}
	query.Set("part", "snippet,contentDetails")
	query.Set("playlistId", playlistID)
	query.Set("maxResults", strconv.Itoa(y.pageSize))
	if cur.Token() != "" {
		query.Set("pageToken", cur.Token())
	}

	var response playlistItemListResponse
	if err := y.doRequest(ctx, "playlistItems", query, &response); err != nil {
		return nil, cur, err
	}

	items := make([]models.PlaylistItem, len(response.Items))
	for i, item := range response.Items {
		items[i] = models.PlaylistItem{
			ID:         item.ID,
			ETag:       item.ETag,
			PlaylistID: item.Snippet.PlaylistID,
			VideoID:    item.ContentDetails.VideoID,
			Title:      item.Snippet.Title,
			Channel:    item.Snippet.VideoOwnerChannel,
			Position:   item.Snippet.Position,
		}
	}

	return items, cursorAfter(response.NextPageToken), nil
}

// PlaylistItems retrieves all items of a playlist in server-assigned position order.
func (y *YouTubeService) PlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	var all []models.PlaylistItem

	for cur := (Cursor{}); !cur.Done(); {
		page, next, err := y.PlaylistItemsPage(ctx, playlistID, cur)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		cur = next
	}

	return all, nil
}

// VideoDetails resolves metadata for the given video IDs, batching calls at the API's 50-ID limit.
//
// Calls GET /videos.
func (y *YouTubeService) VideoDetails(ctx context.Context, videoIDs []string) (map[string]VideoDetail, error) {
	details := make(map[string]VideoDetail, len(videoIDs))

	for start := 0; start < len(videoIDs); start += videoBatchSize {
		end := min(start+videoBatchSize, len(videoIDs))

		query := url.Values{}
		query.Set("part", "snippet")
		query.Set("id", strings.Join(videoIDs[start:end], ","))

		var response videoListResponse
		if err := y.doRequest(ctx, "videos", query, &response); err != nil {
			return nil, err
		}

		for _, item := range response.Items {
			details[item.ID] = VideoDetail{
				ID:           item.ID,
				ETag:         item.ETag,
				Title:        item.Snippet.Title,
				ChannelID:    item.Snippet.ChannelID,
				ChannelTitle: item.Snippet.ChannelTitle,
				Description:  item.Snippet.Description,
				PublishedAt:  item.Snippet.PublishedAt,
			}
		}
	}

	return details, nil
}
