package track

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"vibeapi/internal/cache"
	"vibeapi/internal/platform/spotify"
)

func spotifyTrack(id, name string, artists ...string) spotify.Track {
	t := spotify.Track{
		ID:           id,
		Name:         name,
		URI:          "spotify:track:" + id,
		ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/" + id},
		Album: spotify.Album{
			Name:   name + " (Album)",
			Images: []spotify.Image{{URL: "https://i.scdn.co/image/" + id}},
		},
	}
	for _, a := range artists {
		t.Artists = append(t.Artists, spotify.Artist{Name: a})
	}
	return t
}

// sleepRecorder records requested backoff delays without waiting.
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *sleepRecorder) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func newTestResolver(catalog CatalogSearch, cfg ResolverConfig) (*Resolver, *sleepRecorder) {
	rec := &sleepRecorder{}
	return NewResolver(catalog, cfg, zap.NewNop(), WithSleeper(rec.sleep)), rec
}

func newTestFinder(catalog CatalogSearch, cfg FinderConfig) *Finder {
	r, _ := newTestResolver(catalog, ResolverConfig{})
	matches := cache.New[[]TrackMatch]("matches", cache.NewMemory[[]TrackMatch](time.Minute, 100), zap.NewNop())
	return NewFinder(r, matches, cfg, zap.NewNop())
}
