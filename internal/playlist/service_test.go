package playlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vibeapi/internal/cache"
	"vibeapi/internal/platform/spotify"
)

type mockDescriber struct {
	mock.Mock
}

func (m *mockDescriber) Describe(ctx context.Context, vibe string) (string, error) {
	args := m.Called(ctx, vibe)
	return args.String(0), args.Error(1)
}

type mockSearch struct {
	mock.Mock
}

func (m *mockSearch) SearchPlaylists(ctx context.Context, query string, limit int) ([]spotify.Playlist, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]spotify.Playlist), args.Error(1)
}

func newTestService() (*Service, *mockDescriber, *mockSearch) {
	describer := new(mockDescriber)
	search := new(mockSearch)
	descriptions := cache.New[string]("descriptions", cache.NewMemory[string](time.Minute, 10), zap.NewNop())
	return NewService(describer, search, descriptions, 3, zap.NewNop()), describer, search
}

func TestService_Describe(t *testing.T) {
	t.Run("cached per vibe", func(t *testing.T) {
		svc, describer, _ := newTestService()
		describer.On("Describe", mock.Anything, "beach sunset").Return("Warm tones for golden hour.", nil).Once()

		first, err := svc.Describe(context.Background(), "beach sunset")
		require.NoError(t, err)
		second, err := svc.Describe(context.Background(), "  beach sunset")
		require.NoError(t, err)

		assert.Equal(t, Description{Vibe: "beach sunset", Description: "Warm tones for golden hour."}, first)
		assert.Equal(t, first, second)
		describer.AssertExpectations(t)
	})

	t.Run("blank vibe", func(t *testing.T) {
		svc, describer, _ := newTestService()

		_, err := svc.Describe(context.Background(), " ")

		assert.ErrorIs(t, err, ErrValidation)
		describer.AssertNotCalled(t, "Describe", mock.Anything, mock.Anything)
	})

	t.Run("upstream failure not cached", func(t *testing.T) {
		svc, describer, _ := newTestService()
		describer.On("Describe", mock.Anything, "storm").Return("", errors.New("503")).Once()
		describer.On("Describe", mock.Anything, "storm").Return("Thunder and rain.", nil).Once()

		_, err := svc.Describe(context.Background(), "storm")
		assert.ErrorIs(t, err, ErrUpstream)

		desc, err := svc.Describe(context.Background(), "storm")
		require.NoError(t, err)
		assert.Equal(t, "Thunder and rain.", desc.Description)
	})
}

func TestService_SuggestPlaylists(t *testing.T) {
	t.Run("maps playlists", func(t *testing.T) {
		svc, _, search := newTestService()
		p := spotify.Playlist{
			ID:           "37i9dQZF1DX4WYpdgoIcn6",
			Name:         "Chill Hits",
			Description:  "Kick back to the best new and recent chill hits.",
			Images:       []spotify.Image{{URL: "https://i.scdn.co/image/chill"}},
			ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/playlist/37i9dQZF1DX4WYpdgoIcn6"},
		}
		p.Owner.DisplayName = "Spotify"
		p.Tracks.Total = 150
		search.On("SearchPlaylists", mock.Anything, "chill", 3).Return([]spotify.Playlist{p}, nil)

		got, err := svc.SuggestPlaylists(context.Background(), "chill ")

		require.NoError(t, err)
		assert.Equal(t, []Playlist{{
			ID:          "37i9dQZF1DX4WYpdgoIcn6",
			Name:        "Chill Hits",
			Description: "Kick back to the best new and recent chill hits.",
			Owner:       "Spotify",
			ExternalURL: "https://open.spotify.com/playlist/37i9dQZF1DX4WYpdgoIcn6",
			ImageURL:    "https://i.scdn.co/image/chill",
			TracksTotal: 150,
		}}, got)
	})

	t.Run("blank vibe", func(t *testing.T) {
		svc, _, _ := newTestService()

		_, err := svc.SuggestPlaylists(context.Background(), "")

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("search failure", func(t *testing.T) {
		svc, _, search := newTestService()
		search.On("SearchPlaylists", mock.Anything, "chill", 3).Return(nil, spotify.ErrUnauthorized)

		_, err := svc.SuggestPlaylists(context.Background(), "chill")

		assert.ErrorIs(t, err, ErrUpstream)
		assert.ErrorIs(t, err, spotify.ErrUnauthorized)
	})
}
