package track

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"vibeapi/internal/cache"
)

const (
	DefaultMaxResults  = 5
	DefaultConcurrency = 4
)

type FinderConfig struct {
	// MaxResults caps TracksFound. The cap is applied after every candidate
	// has been attempted, so TracksNotFound is never affected by it.
	MaxResults int
	// Concurrency bounds how many candidates are resolved at once.
	Concurrency int
}

// Finder resolves a batch of candidates and partitions the outcome. Results
// keep the input order regardless of which lookups finish first.
type Finder struct {
	resolver *Resolver
	matches  *cache.Cache[[]TrackMatch]
	cfg      FinderConfig
	log      *zap.Logger
}

func NewFinder(resolver *Resolver, matches *cache.Cache[[]TrackMatch], cfg FinderConfig, log *zap.Logger) *Finder {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Finder{
		resolver: resolver,
		matches:  matches,
		cfg:      cfg,
		log:      log,
	}
}

// FindTracks never fails. A candidate whose lookup errors is reported as not
// found; the rest of the batch carries on.
func (f *Finder) FindTracks(ctx context.Context, candidates []string) Result {
	found := make([][]TrackMatch, len(candidates))

	var g errgroup.Group
	g.SetLimit(f.cfg.Concurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			found[i] = f.lookup(ctx, candidate)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{
		TracksFound:    []TrackMatch{},
		TracksNotFound: []string{},
	}
	for i, candidate := range candidates {
		if len(found[i]) == 0 {
			res.TracksNotFound = append(res.TracksNotFound, candidate)
			continue
		}
		for _, m := range found[i] {
			m.Candidate = candidate
			res.TracksFound = append(res.TracksFound, m)
		}
	}
	if len(res.TracksFound) > f.cfg.MaxResults {
		res.TracksFound = res.TracksFound[:f.cfg.MaxResults]
	}
	return res
}

func (f *Finder) lookup(ctx context.Context, candidate string) []TrackMatch {
	matches, err := f.matches.GetOrCompute(ctx, candidate, func(ctx context.Context) ([]TrackMatch, error) {
		m, err := f.resolver.ResolveCandidate(ctx, candidate)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return []TrackMatch{}, nil
		}
		return []TrackMatch{*m}, nil
	})
	if err != nil {
		f.log.Warn("candidate unresolved", zap.String("candidate", candidate), zap.Error(err))
		return nil
	}
	return matches
}
