package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"golang.org/x/oauth2"
)

func oauthTestConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint:     oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: tokenURL},
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("rejects mismatched state", func(t *testing.T) {
		handler := NewOAuthHandler(oauthTestConfig("https://unused.example.com/token"), "expected-state")
		router := NewBasicRouter()
		router.Handler(handler)

		req := httptest.NewRequest(http.MethodGet, "/callback?state=wrong&code=abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected state mismatch error")
		}
	})

	t.Run("exchanges code and reports token", func(t *testing.T) {
		endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "exchanged",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		}))
		defer endpoint.Close()

		handler := NewOAuthHandler(oauthTestConfig(endpoint.URL), "state-token")
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?state="+url.QueryEscape("state-token")+"&code=auth-code", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "exchanged" {
			t.Errorf("expected exchanged token, got %+v", result.Token)
		}
	})

	t.Run("processes the callback only once", func(t *testing.T) {
		handler := NewOAuthHandler(oauthTestConfig("https://unused.example.com/token"), "state-token")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=wrong", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 on replay, got %d", second.Code)
		}
	})
}
