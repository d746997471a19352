package track

import (
	"errors"

	"github.com/samber/lo"

	"vibeapi/internal/platform/spotify"
)

var (
	// ErrValidation is returned for an empty or missing query.
	ErrValidation = errors.New("query is required")
	// ErrNoSuggestions means the suggestion source produced nothing usable.
	ErrNoSuggestions = errors.New("no suggestions found")
	// ErrUpstream wraps failures of the suggestion source or the catalog.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrRetriesExhausted means every attempt was rate limited.
	ErrRetriesExhausted = errors.New("catalog still rate limited after retries")
)

// TrackMatch is a catalog record matched to one candidate.
type TrackMatch struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	ExternalURL string   `json:"external_url"`
	URI         string   `json:"uri,omitempty"`
	PreviewURL  string   `json:"preview_url,omitempty"`
	// Candidate is the suggestion string this track was resolved from.
	Candidate  string  `json:"candidate"`
	MatchScore float64 `json:"match_score"`
}

// Result partitions the candidates of one request. Every candidate either
// contributed a track to TracksFound or is listed in TracksNotFound.
type Result struct {
	TracksFound    []TrackMatch `json:"tracks_found"`
	TracksNotFound []string     `json:"tracks_not_found"`
}

func newMatch(t spotify.Track) TrackMatch {
	m := TrackMatch{
		ID:          t.ID,
		Name:        t.Name,
		Artists:     lo.Map(t.Artists, func(a spotify.Artist, _ int) string { return a.Name }),
		Album:       t.Album.Name,
		ExternalURL: t.ExternalURLs["spotify"],
		URI:         t.URI,
		PreviewURL:  t.PreviewURL,
	}
	if len(t.Album.Images) > 0 {
		m.ImageURL = t.Album.Images[0].URL
	}
	return m
}
