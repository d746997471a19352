package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
)

// Upstream fakes the OpenAI chat completions endpoint and the Spotify token
// and search endpoints on a single server.
type Upstream struct {
	URL string

	Completions atomic.Int32
	Searches    atomic.Int32

	mu          sync.Mutex
	suggestions string
	description string
	tracks      map[string]string
	playlists   string
}

// OpenAIBaseURL is the base URL to hand to the OpenAI client.
func (u *Upstream) OpenAIBaseURL() string { return u.URL + "/v1" }

// SpotifyTokenURL is the client-credentials token endpoint.
func (u *Upstream) SpotifyTokenURL() string { return u.URL + "/api/token" }

// SetSuggestions sets the model reply to suggestion prompts.
func (u *Upstream) SetSuggestions(lines ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.suggestions = strings.Join(lines, "\n")
}

// SetDescription sets the model reply to description prompts.
func (u *Upstream) SetDescription(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.description = text
}

// AddTrack makes track searches whose query contains title return the given
// Spotify track object (raw JSON).
func (u *Upstream) AddTrack(title, trackJSON string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tracks[title] = trackJSON
}

// SetPlaylists sets the raw JSON array returned for playlist searches.
func (u *Upstream) SetPlaylists(itemsJSON string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.playlists = itemsJSON
}

func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{tracks: map[string]string{}, playlists: "[]"}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", u.chat)
	mux.HandleFunc("/api/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"app-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/v1/search", u.search)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	u.URL = srv.URL
	return u
}

func (u *Upstream) chat(w http.ResponseWriter, r *http.Request) {
	u.Completions.Add(1)
	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	u.mu.Lock()
	content := u.suggestions
	if len(req.Messages) > 0 && strings.HasPrefix(req.Messages[0].Content, "Generate a playlist description") {
		content = u.description
	}
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
}

func (u *Upstream) search(w http.ResponseWriter, r *http.Request) {
	u.Searches.Add(1)
	if r.Header.Get("Authorization") != "Bearer app-token" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()

	u.mu.Lock()
	defer u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if q.Get("type") == "playlist" {
		_, _ = w.Write([]byte(`{"playlists":{"items":` + u.playlists + `}}`))
		return
	}
	items := "[]"
	for title, track := range u.tracks {
		if strings.Contains(q.Get("q"), "track:"+title) {
			items = "[" + track + "]"
			break
		}
	}
	_, _ = w.Write([]byte(`{"tracks":{"items":` + items + `}}`))
}
