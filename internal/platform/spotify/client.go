package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL  = "https://api.spotify.com"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

type Config struct {
	ClientID     string
	ClientSecret string
	// Market is an optional ISO 3166-1 country code applied to searches.
	Market   string
	RPS      float64
	Timeout  time.Duration
	BaseURL  string
	TokenURL string
}

// Client talks to the Spotify Web API with an app (client credentials) token.
// Tokens are fetched and refreshed by the oauth2 transport.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	market  string
}

type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient bypasses the client credentials flow and uses hc as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	hc := o.httpClient
	if hc == nil {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		hc = cc.Client(context.Background())
	}

	rc := resty.NewWithClient(hc).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		http:    rc,
		limiter: rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		market:  cfg.Market,
	}
}

// SearchTracks runs a track search. query may use field filters such as
// "track:Creep artist:Radiohead".
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	res, err := c.search(ctx, query, "track", limit)
	if err != nil {
		return nil, err
	}
	if res.Tracks == nil {
		return nil, nil
	}
	return res.Tracks.Items, nil
}

func (c *Client) SearchPlaylists(ctx context.Context, query string, limit int) ([]Playlist, error) {
	res, err := c.search(ctx, query, "playlist", limit)
	if err != nil {
		return nil, err
	}
	if res.Playlists == nil {
		return nil, nil
	}
	out := make([]Playlist, 0, len(res.Playlists.Items))
	for _, p := range res.Playlists.Items {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (c *Client) search(ctx context.Context, query, kind string, limit int) (*searchResponse, error) {
	if limit <= 0 {
		limit = 1
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := map[string]string{
		"q":     query,
		"type":  kind,
		"limit": strconv.Itoa(limit),
	}
	if c.market != "" {
		params["market"] = c.market
	}

	var out searchResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		SetError(&apiErr).
		Get("/v1/search")
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return nil, fmt.Errorf("%w: token request failed: %v", ErrUnauthorized, err)
		}
		return nil, fmt.Errorf("spotify search: %w", err)
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusTooManyRequests:
		return nil, &RateLimitError{RetryAfter: parseRetryAfter(resp.Header().Get("Retry-After"))}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Error.Message)
	case !resp.IsSuccess():
		return nil, &StatusError{StatusCode: code, Message: apiErr.Error.Message}
	}
	return &out, nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
