package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"vibeapi/internal/httpx"
	"vibeapi/internal/platform/spotify"
)

func TestHTTPHandler_Describe(t *testing.T) {
	svc, describer, _ := newTestService()
	handler := NewHTTPHandler(svc, zap.NewNop())

	t.Run("success", func(t *testing.T) {
		describer.On("Describe", mock.Anything, "road trip").Return("Windows down.", nil).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/describe", strings.NewReader(`{"vibe":"road trip"}`))
		handler.Describe(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data Description `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "Windows down.", body.Data.Description)
	})

	t.Run("missing vibe", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/describe", strings.NewReader(`{}`))
		handler.Describe(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		describer.On("Describe", mock.Anything, "gloom").Return("", errors.New("quota")).Once()

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/describe", strings.NewReader(`{"vibe":"gloom"}`))
		handler.Describe(w, r)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "UPSTREAM_ERROR")
	})

	t.Run("client gone", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		handler := NewHTTPHandler(svc, zap.New(core))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/describe", strings.NewReader(`{"vibe":"late night"}`)).WithContext(ctx)
		handler.Describe(w, r)

		assert.Equal(t, httpx.StatusClientClosedRequest, w.Code)
		assert.Empty(t, w.Body.String())
		assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		describer.AssertNotCalled(t, "Describe", mock.Anything, "late night")
	})
}

func TestHTTPHandler_SuggestPlaylists(t *testing.T) {
	svc, _, search := newTestService()
	handler := NewHTTPHandler(svc, zap.NewNop())

	t.Run("success", func(t *testing.T) {
		search.On("SearchPlaylists", mock.Anything, "lofi", 3).
			Return([]spotify.Playlist{{ID: "1", Name: "Lofi Beats"}, {ID: "2", Name: "Lofi Study"}}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/suggest_playlists?vibe=lofi", nil)
		handler.SuggestPlaylists(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data struct {
				Playlists []Playlist `json:"playlists"`
			} `json:"data"`
			Meta map[string]any `json:"meta"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Len(t, body.Data.Playlists, 2)
		assert.EqualValues(t, 2, body.Meta["total"])
	})

	t.Run("missing vibe", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/suggest_playlists", nil)
		handler.SuggestPlaylists(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
