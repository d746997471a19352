package track

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"vibeapi/internal/cache"
	"vibeapi/internal/platform/spotify"
	"vibeapi/internal/suggestion"
)

func newTestService(t *testing.T, log *zap.Logger) (*Service, *MockSuggestionSource, *MockCatalogSearch) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	source := NewMockSuggestionSource(ctrl)
	catalog := NewMockCatalogSearch(ctrl)

	suggestions := cache.New[[]string]("suggestions", cache.NewMemory[[]string](time.Minute, 100), log)
	svc := NewService(
		source,
		suggestion.NewParser(log, suggestion.ModeAuto),
		suggestions,
		newTestFinder(catalog, FinderConfig{}),
		5,
		log,
	)
	return svc, source, catalog
}

func TestService_Search(t *testing.T) {
	t.Run("blank query", func(t *testing.T) {
		svc, _, _ := newTestService(t, zap.NewNop())

		_, err := svc.Search(context.Background(), "   ")

		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("source failure is no suggestions", func(t *testing.T) {
		svc, source, _ := newTestService(t, zap.NewNop())
		source.EXPECT().GetSuggestions(gomock.Any(), "rainy day", 5).Return(nil, errors.New("quota exceeded"))

		_, err := svc.Search(context.Background(), "rainy day")

		assert.ErrorIs(t, err, ErrNoSuggestions)
	})

	t.Run("nothing parseable is no suggestions", func(t *testing.T) {
		svc, source, _ := newTestService(t, zap.NewNop())
		source.EXPECT().GetSuggestions(gomock.Any(), "rainy day", 5).
			Return([]string{"Here are some songs:", "enjoy"}, nil)

		_, err := svc.Search(context.Background(), "rainy day")

		assert.ErrorIs(t, err, ErrNoSuggestions)
	})

	t.Run("end to end", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		svc, source, catalog := newTestService(t, zap.New(core))
		source.EXPECT().GetSuggestions(gomock.Any(), "summer night", 5).Return([]string{
			"1. **Blinding Lights** - The Weeknd",
			"2. garbage line",
			"3. **Levitating** - Dua Lipa",
		}, nil)
		catalog.EXPECT().SearchTracks(gomock.Any(), "track:Blinding Lights artist:The Weeknd", 1).
			Return([]spotify.Track{spotifyTrack("1", "Blinding Lights", "The Weeknd")}, nil)
		catalog.EXPECT().SearchTracks(gomock.Any(), "track:Levitating artist:Dua Lipa", 1).
			Return(nil, nil)

		res, err := svc.Search(context.Background(), "  summer night ")

		require.NoError(t, err)
		require.Len(t, res.TracksFound, 1)
		assert.Equal(t, "Blinding Lights by The Weeknd", res.TracksFound[0].Candidate)
		assert.Equal(t, []string{"Levitating by Dua Lipa"}, res.TracksNotFound)
		assert.Equal(t, 1, logs.FilterMessage("dropping malformed suggestion").Len())
		assert.Equal(t, 1, logs.FilterMessage("search completed").Len())
	})

	t.Run("suggestions cached per trimmed query", func(t *testing.T) {
		svc, source, catalog := newTestService(t, zap.NewNop())
		source.EXPECT().GetSuggestions(gomock.Any(), "focus", 5).
			Return([]string{"Weightless - Marconi Union"}, nil).Times(1)
		catalog.EXPECT().SearchTracks(gomock.Any(), "track:Weightless artist:Marconi Union", 1).
			Return([]spotify.Track{spotifyTrack("4", "Weightless", "Marconi Union")}, nil).Times(1)

		first, err := svc.Search(context.Background(), "focus")
		require.NoError(t, err)
		second, err := svc.Search(context.Background(), " focus ")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("cancelled", func(t *testing.T) {
		svc, source, _ := newTestService(t, zap.NewNop())
		ctx, cancel := context.WithCancel(context.Background())
		source.EXPECT().GetSuggestions(gomock.Any(), "late", 5).
			DoAndReturn(func(ctx context.Context, _ string, _ int) ([]string, error) {
				cancel()
				return nil, ctx.Err()
			})

		_, err := svc.Search(ctx, "late")

		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrNoSuggestions)
	})
}
