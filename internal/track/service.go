package track

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"vibeapi/internal/cache"
	"vibeapi/internal/suggestion"
)

const DefaultMaxSongs = 5

// Service runs one search request end to end: suggestions, parsing, then
// catalog resolution.
type Service struct {
	source      SuggestionSource
	parser      *suggestion.Parser
	suggestions *cache.Cache[[]string]
	finder      *Finder
	maxSongs    int
	log         *zap.Logger
}

func NewService(
	source SuggestionSource,
	parser *suggestion.Parser,
	suggestions *cache.Cache[[]string],
	finder *Finder,
	maxSongs int,
	log *zap.Logger,
) *Service {
	if maxSongs <= 0 {
		maxSongs = DefaultMaxSongs
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		source:      source,
		parser:      parser,
		suggestions: suggestions,
		finder:      finder,
		maxSongs:    maxSongs,
		log:         log,
	}
}

// Search returns ErrValidation for a blank query and ErrNoSuggestions when the
// source fails or yields nothing parseable. Per-candidate failures only show
// up in Result.TracksNotFound.
func (s *Service) Search(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, ErrValidation
	}
	start := time.Now()

	candidates, err := s.Candidates(ctx, query)
	if err != nil {
		return Result{}, err
	}

	res := s.finder.FindTracks(ctx, candidates)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	s.log.Info("search completed",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)),
		zap.Int("found", len(res.TracksFound)),
		zap.Int("not_found", len(res.TracksNotFound)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

// Candidates returns the parsed "Title by Artist" candidates for query,
// served from cache when possible.
func (s *Service) Candidates(ctx context.Context, query string) ([]string, error) {
	candidates, err := s.suggestions.GetOrCompute(ctx, query, func(ctx context.Context) ([]string, error) {
		lines, err := s.source.GetSuggestions(ctx, query, s.maxSongs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		parsed := s.parser.ParseLines(lines)
		if len(parsed) == 0 {
			return nil, ErrNoSuggestions
		}
		return lo.Map(parsed, func(p suggestion.Suggestion, _ int) string { return p.String() }), nil
	})
	switch {
	case err == nil:
		return candidates, nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	case errors.Is(err, ErrNoSuggestions):
		s.log.Info("no usable suggestions", zap.String("query", query))
		return nil, ErrNoSuggestions
	default:
		s.log.Warn("suggestion source failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrNoSuggestions, err)
	}
}
