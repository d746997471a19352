package spotify

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type Artist struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ExternalURLs map[string]string `json:"external_urls"`
}

type Album struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ReleaseDate string  `json:"release_date"`
	Images      []Image `json:"images"`
}

// Track matches the track object returned by /v1/search?type=track.
type Track struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	URI          string            `json:"uri"`
	DurationMs   int               `json:"duration_ms"`
	Popularity   int               `json:"popularity"`
	PreviewURL   string            `json:"preview_url"`
	Artists      []Artist          `json:"artists"`
	Album        Album             `json:"album"`
	ExternalURLs map[string]string `json:"external_urls"`
}

// Playlist matches the simplified playlist object returned by /v1/search?type=playlist.
type Playlist struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Images       []Image           `json:"images"`
	ExternalURLs map[string]string `json:"external_urls"`
	Owner        struct {
		DisplayName string `json:"display_name"`
	} `json:"owner"`
	Tracks struct {
		Total int `json:"total"`
	} `json:"tracks"`
}

type searchResponse struct {
	Tracks *struct {
		Items []Track `json:"items"`
	} `json:"tracks"`
	// Spotify occasionally returns null entries in playlist results.
	Playlists *struct {
		Items []*Playlist `json:"items"`
	} `json:"playlists"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
