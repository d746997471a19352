// Package playlist generates playlist descriptions and finds existing
// playlists for a vibe.
package playlist

import (
	"context"
	"errors"

	"vibeapi/internal/platform/spotify"
)

var (
	ErrValidation = errors.New("vibe is required")
	ErrUpstream   = errors.New("upstream unavailable")
)

type Describer interface {
	Describe(ctx context.Context, vibe string) (string, error)
}

type Search interface {
	SearchPlaylists(ctx context.Context, query string, limit int) ([]spotify.Playlist, error)
}

type Description struct {
	Vibe        string `json:"vibe"`
	Description string `json:"description"`
}

type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	ExternalURL string `json:"external_url"`
	ImageURL    string `json:"image_url,omitempty"`
	TracksTotal int    `json:"tracks_total"`
}

func fromSpotify(p spotify.Playlist) Playlist {
	out := Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Owner:       p.Owner.DisplayName,
		ExternalURL: p.ExternalURLs["spotify"],
		TracksTotal: p.Tracks.Total,
	}
	if len(p.Images) > 0 {
		out.ImageURL = p.Images[0].URL
	}
	return out
}
