package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/ytls/internal/shared"
)

func playlistPage(ids []string, next string) map[string]any {
	items := make([]map[string]any, len(ids))
	for i, id := range ids {
		items[i] = map[string]any{
			"etag": "etag-" + id,
			"id":   id,
			"snippet": map[string]any{
				"channelId":   "UC123",
				"title":       "Playlist " + id,
				"description": "",
			},
			"contentDetails": map[string]any{"itemCount": 3},
		}
	}
	page := map[string]any{"items": items}
	if next != "" {
		page["nextPageToken"] = next
	}
	return page
}

func itemPage(playlistID string, positions []int, next string) map[string]any {
	items := make([]map[string]any, len(positions))
	for i, pos := range positions {
		items[i] = map[string]any{
			"etag": fmt.Sprintf("etag-%d", pos),
			"id":   fmt.Sprintf("item-%d", pos),
			"snippet": map[string]any{
				"playlistId": playlistID,
				"title":      fmt.Sprintf("Video %d", pos),
				"position":   pos,
			},
			"contentDetails": map[string]any{"videoId": fmt.Sprintf("vid-%d", pos)},
		}
	}
	page := map[string]any{"items": items}
	if next != "" {
		page["nextPageToken"] = next
	}
	return page
}

func TestCursor(t *testing.T) {
	t.Run("zero value addresses first page", func(t *testing.T) {
		var cur Cursor
		if cur.Done() {
			t.Error("expected zero cursor to not be done")
		}
		if cur.Token() != "" {
			t.Errorf("expected empty token, got %q", cur.Token())
		}
	})

	t.Run("cursorAfter with token continues", func(t *testing.T) {
		cur := cursorAfter("abc")
		if cur.Done() {
			t.Error("expected cursor with token to not be done")
		}
		if cur.Token() != "abc" {
			t.Errorf("expected token abc, got %q", cur.Token())
		}
	})

	t.Run("cursorAfter without token terminates", func(t *testing.T) {
		if cur := cursorAfter(""); !cur.Done() {
			t.Error("expected cursor without token to be done")
		}
	})

	t.Run("Continue resumes from a token", func(t *testing.T) {
		if cur := Continue("xyz"); cur.Token() != "xyz" || cur.Done() {
			t.Errorf("expected continue cursor with token xyz, got %+v", cur)
		}
	})
}

func TestYouTubeService(t *testing.T) {
	t.Run("NewYouTubeService", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			svc := NewYouTubeService(nil, YouTubeOpts{})
			if svc.baseURL != defaultAPIBaseURL {
				t.Errorf("expected baseURL %s, got %s", defaultAPIBaseURL, svc.baseURL)
			}
			if svc.pageSize != maxPageSize {
				t.Errorf("expected page size %d, got %d", maxPageSize, svc.pageSize)
			}
		})

		t.Run("caps page size at server maximum", func(t *testing.T) {
			if svc := NewYouTubeService(nil, YouTubeOpts{PageSize: 500}); svc.pageSize != maxPageSize {
				t.Errorf("expected page size capped at %d, got %d", maxPageSize, svc.pageSize)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewYouTubeService(nil, YouTubeOpts{}); svc.Name() != "YouTube" {
			t.Errorf("expected name YouTube, got %s", svc.Name())
		}
	})

	t.Run("Playlists", func(t *testing.T) {
		t.Run("concatenates pages in server order", func(t *testing.T) {
			requests := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				if r.URL.Path != "/playlists" {
					t.Errorf("expected path /playlists, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("mine") != "true" {
					t.Error("expected mine=true query parameter")
				}
				if r.URL.Query().Get("maxResults") != "2" {
					t.Errorf("expected maxResults=2, got %s", r.URL.Query().Get("maxResults"))
				}

				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Query().Get("pageToken") {
				case "":
					json.NewEncoder(w).Encode(playlistPage([]string{"PL1", "PL2"}, "page2"))
				case "page2":
					json.NewEncoder(w).Encode(playlistPage([]string{"PL3"}, ""))
				default:
					t.Errorf("unexpected page token %s", r.URL.Query().Get("pageToken"))
				}
			}))
			defer server.Close()

			svc := NewYouTubeService(nil, YouTubeOpts{BaseURL: server.URL, PageSize: 2})
			playlists, err := svc.Playlists(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if requests != 2 {
				t.Errorf("expected exactly 2 requests, got %d", requests)
			}
			if len(playlists) != 3 {
				t.Fatalf("expected 3 playlists, got %d", len(playlists))
			}
			for i, want := range []string{"PL1", "PL2", "PL3"} {
				if playlists[i].ID != want {
					t.Errorf("expected playlist %d to be %s, got %s", i, want, playlists[i].ID)
				}
			}
		})

		t.Run("single page issues one request", func(t *testing.T) {
			requests := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				json.NewEncoder(w).Encode(playlistPage([]string{"PL1"}, ""))
			}))
			defer server.Close()

			svc := NewYouTubeService(nil, YouTubeOpts{BaseURL: server.URL})
			if _, err := svc.Playlists(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if requests != 1 {
				t.Errorf("expected exactly 1 request, got %d", requests)
			}
		})
	})

	t.Run("PlaylistItems", func(t *testing.T) {
		t.Run("follows page tokens and preserves position order", func(t *testing.T) {
			tokens := []string{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/playlistItems" {
					t.Errorf("expected path /playlistItems, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("playlistId") != "PL1" {
					t.Errorf("expected playlistId=PL1, got %s", r.URL.Query().Get("playlistId"))
				}

				token := r.URL.Query().Get("pageToken")
				tokens = append(tokens, token)
				w.Header().Set("Content-Type", "application/json")
				if token == "" {
					json.NewEncoder(w).Encode(itemPage("PL1", []int{0, 1}, "next"))
				} else {
					json.NewEncoder(w).Encode(itemPage("PL1", []int{2}, ""))
				}
			}))
			defer server.Close()

			svc := NewYouTubeService(nil, YouTubeOpts{BaseURL: server.URL, PageSize: 2})
			items, err := svc.PlaylistItems(context.Background(), "PL1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(tokens) != 2 || tokens[0] != "" || tokens[1] != "next" {
				t.Errorf("expected token sequence [\"\", next], got %v", tokens)
			}
			if len(items) != 3 {
				t.Fatalf("expected 3 items, got %d", len(items))
			}
			for i, item := range items {
				if item.Position != i {
					t.Errorf("expected item %d at position %d, got %d", i, i, item.Position)
				}
			}
		})

		t.Run("requires a playlist ID", func(t *testing.T) {
			svc := NewYouTubeService(nil, YouTubeOpts{BaseURL: "http://unused"})
			if _, err := svc.PlaylistItems(context.Background(), ""); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("VideoDetails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/videos" {
				t.Errorf("expected path /videos, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{"id": "vid-1", "snippet": map[string]any{"title": "One", "channelTitle": "Chan"}},
					{"id": "vid-2", "snippet": map[string]any{"title": "Two", "channelTitle": "Chan"}},
				},
			})
		}))
		defer server.Close()

		svc := NewYouTubeService(nil, YouTubeOpts{BaseURL: server.URL})
		details, err := svc.VideoDetails(context.Background(), []string{"vid-1", "vid-2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(details) != 2 {
			t.Fatalf("expected 2 details, got %d", len(details))
		}
		if details["vid-1"].Title != "One" {
			t.Errorf("expected title One, got %s", details["vid-1"].Title)
		}
	})

	t.Run("error mapping", func(t *testing.T) {
		cases := []struct {
			name   string
			status int
			reason string
			want   error
		}{
			{"unauthorized maps to token expired", http.StatusUnauthorized, "authError", shared.ErrTokenExpired},
			{"quota exhaustion maps to quota exceeded", http.StatusForbidden, "quotaExceeded", shared.ErrQuotaExceeded},
			{"missing playlist maps to not found", http.StatusNotFound, "playlistNotFound", shared.ErrPlaylistNotFound},
			{"other failures map to API request error", http.StatusInternalServerError, "backendError", shared.ErrAPIRequest},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tc.status)
					json.NewEncoder(w).Encode(map[string]any{
						"error": map[string]any{
							"code":    tc.status,
							"message": "boom",
							"errors":  []map[string]any{{"reason": tc.reason}},
						},
					})
				}))
				defer server.Close()

				svc := NewYouTubeService(nil, YouTubeOpts{BaseURL: server.URL})
				_, err := svc.Playlists(context.Background())
				if !errors.Is(err, tc.want) {
					t.Errorf("expected %v, got %v", tc.want, err)
				}
			})
		}
	})
}
