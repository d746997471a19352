// Package app wires the collaborators shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"vibeapi/internal/cache"
	"vibeapi/internal/config"
	"vibeapi/internal/httpx"
	"vibeapi/internal/llm"
	"vibeapi/internal/platform/spotify"
	"vibeapi/internal/playlist"
	"vibeapi/internal/ratelimit"
	"vibeapi/internal/suggestion"
	"vibeapi/internal/track"
)

// App owns every long-lived collaborator. Nothing here is a package-level
// singleton, so tests can build as many isolated instances as they need.
type App struct {
	cfg     config.Config
	log     *zap.Logger
	redis   *redis.Client
	limiter *ratelimit.Window

	Search    *track.Service
	Playlists *playlist.Service
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	a := &App{
		cfg:     cfg,
		log:     log,
		limiter: ratelimit.NewWindow(cfg.RateLimit, cfg.RateWindow),
	}

	completer, err := newCompleter(cfg)
	if err != nil {
		return nil, err
	}
	llmSvc := llm.NewService(completer, log.Named("llm"))

	catalog := spotify.NewClient(spotify.Config{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		Market:       cfg.SpotifyMarket,
		RPS:          cfg.SpotifyRPS,
		BaseURL:      cfg.SpotifyBaseURL,
		TokenURL:     cfg.SpotifyTokenURL,
	})

	if cfg.RedisAddr != "" {
		a.redis, err = cache.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		log.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	}

	cacheLog := log.Named("cache")
	computeTimeout := cache.WithComputeTimeout(cfg.RequestTimeout)
	suggestions := cache.New[[]string]("suggestions", store[[]string](a, "suggestions"), cacheLog, computeTimeout)
	matches := cache.New[[]track.TrackMatch]("matches", store[[]track.TrackMatch](a, "matches"), cacheLog, computeTimeout)
	descriptions := cache.New[string]("descriptions", store[string](a, "descriptions"), cacheLog, computeTimeout)

	resolver := track.NewResolver(catalog, track.ResolverConfig{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		MinScore:   cfg.MinMatchScore,
	}, log.Named("resolver"))
	finder := track.NewFinder(resolver, matches, track.FinderConfig{
		MaxResults:  cfg.MaxResults,
		Concurrency: cfg.ResolveConcurrency,
	}, log.Named("finder"))
	parser := suggestion.NewParser(log.Named("parser"), suggestion.ParseMode(cfg.ParseMode))

	a.Search = track.NewService(llmSvc, parser, suggestions, finder, cfg.MaxSongs, log.Named("search"))
	a.Playlists = playlist.NewService(llmSvc, catalog, descriptions, cfg.MaxResults, log.Named("playlist"))
	return a, nil
}

func newCompleter(cfg config.Config) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case "openai":
		return llm.NewOpenAI(llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}), nil
	case "gemini":
		return llm.NewGemini(llm.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// store picks Redis when configured and a bounded in-memory store otherwise.
// Redis bounds its size through its own maxmemory policy.
func store[T any](a *App, name string) cache.Store[T] {
	if a.redis != nil {
		return cache.NewRedis[T](a.redis, "vibeapi:"+name+":", a.cfg.CacheTTL)
	}
	return cache.NewMemory[T](a.cfg.CacheTTL, a.cfg.CacheMaxSize)
}

// Routes returns the HTTP handler with the full middleware chain.
func (a *App) Routes() http.Handler {
	searchHandler := track.NewHTTPHandler(a.Search, a.log.Named("http"))
	playlistHandler := playlist.NewHTTPHandler(a.Playlists, a.log.Named("http"))

	router := http.NewServeMux()
	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.HandleFunc("GET /readyz", a.ready)

	router.Handle("POST /search", httpx.RateLimitMiddleware(a.limiter, a.log.Named("ratelimit"))(
		http.HandlerFunc(searchHandler.Search),
	))
	router.HandleFunc("POST /describe", playlistHandler.Describe)
	router.HandleFunc("GET /suggest_playlists", playlistHandler.SuggestPlaylists)

	return httpx.Chain(router,
		httpx.RecoveryMiddleware(a.log),
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(a.log.Named("access")),
		httpx.SecurityHeadersMiddleware(a.cfg.EnableHSTS),
		httpx.CORSMiddleware(a.cfg.CORSOrigins),
		httpx.RequestSizeLimitMiddleware(a.cfg.MaxBodyBytes),
		httpx.TimeoutMiddleware(a.cfg.RequestTimeout),
	)
}

func (a *App) ready(w http.ResponseWriter, r *http.Request) {
	if a.redis != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := a.redis.Ping(ctx).Err(); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "cache not ready", nil)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}
