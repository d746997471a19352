package app

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vibeapi/internal/config"
	"vibeapi/internal/testutil"
)

const blindingLights = `{
  "id":"0VjIjW4GlUZAMYd2vXMi3b","name":"Blinding Lights",
  "artists":[{"name":"The Weeknd"}],
  "album":{"name":"After Hours","images":[{"url":"https://i.scdn.co/image/abc"}]},
  "external_urls":{"spotify":"https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b"}}`

func newUpstream(t *testing.T) *testutil.Upstream {
	u := testutil.NewUpstream(t)
	u.SetSuggestions(
		"1. **Blinding Lights** - The Weeknd",
		"2. Sure, here you go",
		"3. **Nowhere Song** - Nobody",
	)
	u.SetDescription("Late night synths.")
	u.AddTrack("Blinding Lights", blindingLights)
	u.SetPlaylists(`[null,{"id":"pl1","name":"Night Drive","description":"Neon roads",
		"owner":{"display_name":"Spotify"},"tracks":{"total":80},
		"external_urls":{"spotify":"https://open.spotify.com/playlist/pl1"}}]`)
	return u
}

func newTestApp(t *testing.T, u *testutil.Upstream) http.Handler {
	t.Helper()
	cfg := config.Config{
		Addr:                ":0",
		LogLevel:            "info",
		LogFormat:           "json",
		LLMProvider:         "openai",
		OpenAIAPIKey:        "sk-test",
		OpenAIModel:         "gpt-4o-mini",
		OpenAIBaseURL:       u.OpenAIBaseURL(),
		ParseMode:           "auto",
		SpotifyClientID:     "id",
		SpotifyClientSecret: "secret",
		SpotifyRPS:          1000,
		SpotifyBaseURL:      u.URL,
		SpotifyTokenURL:     u.SpotifyTokenURL(),
		MaxSongs:            5,
		MaxResults:          5,
		MaxRetries:          3,
		RetryBaseDelay:      time.Millisecond,
		ResolveConcurrency:  2,
		CacheTTL:            time.Minute,
		CacheMaxSize:        100,
		RateLimit:           2,
		RateWindow:          time.Minute,
		RequestTimeout:      5 * time.Second,
		CORSOrigins:         []string{"*"},
		MaxBodyBytes:        1 << 10,
	}
	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a.Routes()
}

func TestRoutes_Health(t *testing.T) {
	h := newTestApp(t, newUpstream(t))

	w := testutil.Serve(h, testutil.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = testutil.Serve(h, testutil.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoutes_Search(t *testing.T) {
	u := newUpstream(t)
	h := newTestApp(t, u)
	body := map[string]string{"query": "night drive"}

	res := testutil.RecordHTTPResponse(testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/search", body)))

	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, true, res.Body["success"])
	data := res.Body["data"].(map[string]any)
	found := data["tracks_found"].([]any)
	require.Len(t, found, 1)
	first := found[0].(map[string]any)
	assert.Equal(t, "Blinding Lights", first["name"])
	assert.Equal(t, "Blinding Lights by The Weeknd", first["candidate"])
	assert.Equal(t, "https://open.spotify.com/track/0VjIjW4GlUZAMYd2vXMi3b", first["external_url"])
	assert.Equal(t, []any{"Nowhere Song by Nobody"}, data["tracks_not_found"])
	assert.NotEmpty(t, res.Body["meta"].(map[string]any)["request_id"])

	w := testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/search", body))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(1), u.Completions.Load(), "suggestions should be cached")
	assert.Equal(t, int32(2), u.Searches.Load(), "matches should be cached")

	res = testutil.RecordHTTPResponse(testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/search", body)))
	assert.Equal(t, http.StatusTooManyRequests, res.Code)
	assert.NotEmpty(t, res.Header.Get("Retry-After"))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", res.ErrorCode())
}

func TestRoutes_SearchErrors(t *testing.T) {
	u := newUpstream(t)
	h := newTestApp(t, u)

	res := testutil.RecordHTTPResponse(testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/search", map[string]string{"query": ""})))
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "VALIDATION_ERROR", res.ErrorCode())

	u.SetSuggestions("I'm sorry, I can't help with that.")
	res = testutil.RecordHTTPResponse(testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/search", map[string]string{"query": "???"})))
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "NO_SUGGESTIONS", res.ErrorCode())

	big := map[string]string{"query": strings.Repeat("a", 2000)}
	w := testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/search", big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = testutil.Serve(h, testutil.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRoutes_Playlists(t *testing.T) {
	h := newTestApp(t, newUpstream(t))

	res := testutil.RecordHTTPResponse(testutil.Serve(h, testutil.NewRequest(http.MethodPost, "/describe", map[string]string{"vibe": "night drive"})))
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "Late night synths.", res.Body["data"].(map[string]any)["description"])

	res = testutil.RecordHTTPResponse(testutil.Serve(h, testutil.NewRequest(http.MethodGet, "/suggest_playlists?vibe=night+drive", nil)))
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	playlists := res.Body["data"].(map[string]any)["playlists"].([]any)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Night Drive", playlists[0].(map[string]any)["name"])
	assert.EqualValues(t, 80, playlists[0].(map[string]any)["tracks_total"])

	res = testutil.RecordHTTPResponse(testutil.Serve(h, testutil.NewRequest(http.MethodGet, "/suggest_playlists", nil)))
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
