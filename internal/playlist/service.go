package playlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"vibeapi/internal/cache"
	"vibeapi/internal/platform/spotify"
)

const DefaultLimit = 5

type Service struct {
	describer    Describer
	search       Search
	descriptions *cache.Cache[string]
	limit        int
	log          *zap.Logger
}

func NewService(describer Describer, search Search, descriptions *cache.Cache[string], limit int, log *zap.Logger) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		describer:    describer,
		search:       search,
		descriptions: descriptions,
		limit:        limit,
		log:          log,
	}
}

// Describe returns a generated description for vibe. Descriptions are cached
// per trimmed vibe.
func (s *Service) Describe(ctx context.Context, vibe string) (Description, error) {
	vibe = strings.TrimSpace(vibe)
	if vibe == "" {
		return Description{}, ErrValidation
	}
	text, err := s.descriptions.GetOrCompute(ctx, vibe, func(ctx context.Context) (string, error) {
		return s.describer.Describe(ctx, vibe)
	})
	if err != nil && ctx.Err() != nil {
		return Description{}, err
	}
	if err != nil {
		s.log.Warn("description failed", zap.String("vibe", vibe), zap.Error(err))
		return Description{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return Description{Vibe: vibe, Description: text}, nil
}

// SuggestPlaylists finds existing catalog playlists matching vibe.
func (s *Service) SuggestPlaylists(ctx context.Context, vibe string) ([]Playlist, error) {
	vibe = strings.TrimSpace(vibe)
	if vibe == "" {
		return nil, ErrValidation
	}
	found, err := s.search.SearchPlaylists(ctx, vibe, s.limit)
	if err != nil {
		s.log.Warn("playlist search failed", zap.String("vibe", vibe), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return lo.Map(found, func(p spotify.Playlist, _ int) Playlist { return fromSpotify(p) }), nil
}
