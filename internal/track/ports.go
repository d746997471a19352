package track

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=track

import (
	"context"

	"vibeapi/internal/platform/spotify"
)

// SuggestionSource turns a keyword into raw candidate lines.
type SuggestionSource interface {
	GetSuggestions(ctx context.Context, keyword string, maxSongs int) ([]string, error)
}

// CatalogSearch looks tracks up in the music catalog.
type CatalogSearch interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]spotify.Track, error)
}
