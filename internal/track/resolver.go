package track

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xrash/smetrics"
	"go.uber.org/zap"

	"vibeapi/internal/platform/spotify"
	"vibeapi/internal/suggestion"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

type ResolverConfig struct {
	// MaxRetries is the total number of catalog attempts per candidate.
	MaxRetries int
	// BaseDelay is the wait after the first rate-limited attempt; it doubles
	// after each further one.
	BaseDelay time.Duration
	// MinScore discards matches whose similarity to the suggestion is lower.
	// Zero keeps every match.
	MinScore float64
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type ResolverOption func(*Resolver)

func WithSleeper(s Sleeper) ResolverOption {
	return func(r *Resolver) {
		r.sleep = s
	}
}

// Resolver finds the best catalog match for a single suggestion.
type Resolver struct {
	catalog CatalogSearch
	cfg     ResolverConfig
	sleep   Sleeper
	log     *zap.Logger
}

func NewResolver(catalog CatalogSearch, cfg ResolverConfig, log *zap.Logger, opts ...ResolverOption) *Resolver {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		catalog: catalog,
		cfg:     cfg,
		sleep:   sleepContext,
		log:     log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveCandidate parses a raw candidate and resolves it. A candidate without
// a title/artist separator is "no match" and never reaches the catalog.
func (r *Resolver) ResolveCandidate(ctx context.Context, candidate string) (*TrackMatch, error) {
	s, ok := SplitCandidate(candidate)
	if !ok {
		r.log.Warn("candidate not resolvable", zap.String("candidate", candidate))
		return nil, nil
	}
	m, err := r.Resolve(ctx, s)
	if m != nil {
		m.Candidate = candidate
	}
	return m, err
}

// Resolve returns the single best match for s, or nil when the catalog has
// none. A non-nil error means the lookup failed and also yields no match;
// callers that must not fail treat both the same way.
func (r *Resolver) Resolve(ctx context.Context, s suggestion.Suggestion) (*TrackMatch, error) {
	query := BuildQuery(s.Title, s.Artist)

	var lastErr error
	for attempt := 0; attempt < r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := r.cfg.BaseDelay << (attempt - 1)
			var rle *spotify.RateLimitError
			if errors.As(lastErr, &rle) && rle.RetryAfter > delay {
				delay = rle.RetryAfter
			}
			r.log.Warn("catalog rate limited, backing off",
				zap.String("query", query),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			if err := r.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		tracks, err := r.catalog.SearchTracks(ctx, query, 1)
		if err == nil {
			return r.pick(s, query, tracks), nil
		}
		if !errors.Is(err, spotify.ErrRateLimited) {
			r.log.Warn("catalog search failed", zap.String("query", query), zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		lastErr = err
	}

	r.log.Warn("giving up on rate-limited query", zap.String("query", query), zap.Int("attempts", r.cfg.MaxRetries))
	return nil, fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}

func (r *Resolver) pick(s suggestion.Suggestion, query string, tracks []spotify.Track) *TrackMatch {
	if len(tracks) == 0 {
		r.log.Debug("no catalog match", zap.String("query", query))
		return nil
	}
	m := newMatch(tracks[0])
	m.MatchScore = Score(s, m)
	if m.MatchScore < r.cfg.MinScore {
		r.log.Info("discarding weak match",
			zap.String("query", query),
			zap.String("track", m.Name),
			zap.Float64("score", m.MatchScore),
		)
		return nil
	}
	return &m
}

// SplitCandidate recovers title and artist from a "Title by Artist" candidate,
// splitting on the last " by " so titles containing the word survive. Other
// shapes go through the line parser.
func SplitCandidate(candidate string) (suggestion.Suggestion, bool) {
	candidate = strings.TrimSpace(candidate)
	if i := strings.LastIndex(candidate, " by "); i >= 0 {
		title := strings.TrimSpace(candidate[:i])
		artist := strings.TrimSpace(candidate[i+len(" by "):])
		if title != "" && artist != "" {
			return suggestion.Suggestion{Title: title, Artist: artist}, true
		}
	}
	s, err := suggestion.ParseLine(candidate)
	if err != nil {
		return suggestion.Suggestion{}, false
	}
	return s, true
}

// BuildQuery renders the field-filtered catalog query for a title and artist.
func BuildQuery(title, artist string) string {
	if artist == "" {
		return "track:" + title
	}
	return "track:" + title + " artist:" + artist
}

// Score rates how well m fits s in [0, 1], weighting the title over the
// closest of the track's artists.
func Score(s suggestion.Suggestion, m TrackMatch) float64 {
	title := similarity(s.Title, m.Name)
	artist := 0.0
	for _, a := range m.Artists {
		artist = max(artist, similarity(s.Artist, a))
	}
	return 0.6*title + 0.4*artist
}

func similarity(a, b string) float64 {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
