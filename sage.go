// Package sage serves the Mahabharata AI Sage site shell built with Go, Echo
// and templ.
//
// Every page carries the same <head>: title, SEO and social-card meta tags,
// favicons, the analytics loader and a JSON-LD organization block. That
// metadata is resolved once at startup into an immutable descriptor and
// pre-rendered; the browser-side app reads its API base URL from the
// runtime config embedded next to it.
package sage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/sage/crawlers"
	"github.com/eringen/sage/head"
	"github.com/eringen/sage/logger"
	"github.com/eringen/sage/upstream"
	"github.com/eringen/sage/views"
)

// App is the central sage application. It wires together the head
// descriptor, the crawl log, the upstream client, middleware and routes.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Log    *logger.Logger

	head         head.Descriptor
	runtime      head.RuntimeConfig
	pages        *pageCache
	crawlerStore *crawlers.Store
	upstream     *upstream.Client
	upstreamURL  string
	limiter      *IPLimiter
	customRoutes []func(*App)
	stops        []func()
	started      time.Time
	initialized  bool
}

// New resolves the configuration into an App. The head descriptor is built
// and validated here so a bad descriptor fails before anything listens.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	d, err := BuildDescriptor(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Echo:    echo.New(),
		head:    d,
		runtime: cfg.RuntimeConfig(),
		started: time.Now(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		a.Log = logger.New("server", cfg.LogLevel)
	}
	if a.upstreamURL == "" {
		a.upstreamURL = cfg.APIBase
	}

	a.pages = newPageCache(a.head, a.runtime)
	a.upstream = upstream.New(a.upstreamURL, cfg.UpstreamTimeout)
	a.limiter = NewIPLimiter(cfg.APIRate, cfg.APIBurst, 10*time.Minute)
	return a, nil
}

// Head returns a copy of the descriptor the app renders.
func (a *App) Head() head.Descriptor {
	return a.head.Clone()
}

// RuntimeConfig returns the client-visible runtime config.
func (a *App) RuntimeConfig() head.RuntimeConfig {
	return a.runtime
}

// Init opens the crawl log, generates the favicon if configured, and
// registers middleware and routes. Start calls it; tests can call it to use
// a.Echo as an http.Handler without listening.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}

	if a.Config.CrawlerLog {
		store, err := crawlers.NewStore(a.Config.CrawlerDatabasePath)
		if err != nil {
			return fmt.Errorf("sage: init crawl log: %w", err)
		}
		a.crawlerStore = store
		a.stops = append(a.stops, store.StartCleanupScheduler(a.Config.CrawlerRetentionDays, 24*time.Hour, func(err error) {
			a.Log.Error().Err(err).Msg("crawl log cleanup")
		}))
	}

	if err := a.ensureFavicon(); err != nil {
		a.Log.Warn().Err(err).Str("source", a.Config.FaviconSource).Msg("favicon generation failed")
	}

	a.stops = append(a.stops, a.limiter.StartJanitor(time.Minute))

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and serves until ctx is cancelled, then shuts
// down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	a.Log.Info().
		Str("addr", a.Config.Addr).
		Str("api_base", a.runtime.Public.APIBase).
		Str("title", a.head.Title).
		Bool("devtools", a.head.Devtools).
		Bool("crawler_log", a.crawlerStore != nil).
		Msg("starting server")

	errCh := make(chan error, 1)
	go func() {
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("sage: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		a.Log.Warn().Err(err).Msg("graceful shutdown failed")
		return a.Echo.Close()
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handlePage)
	e.GET("/favicon.ico", a.handleStaticFile("favicon.ico"))
	e.GET("/favicon.png", a.handleStaticFile("favicon.png"))
	e.GET("/assets/*", a.handleAsset)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)

	api := e.Group("/api", a.limiter.Middleware())
	api.GET("/runtime-config", a.handleRuntimeConfig)
	api.GET("/health", a.handleHealth)
	api.GET("/examples", a.handleExamples)
	if a.crawlerStore != nil {
		crawlers.NewHandler(a.crawlerStore).RegisterRoutes(api)
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	for _, stop := range a.stops {
		stop()
	}
	a.stops = nil
	if a.crawlerStore != nil {
		return a.crawlerStore.Close()
	}
	return nil
}

// pageView pairs the descriptor with the runtime config for the views.
func (a *App) pageView() views.PageData {
	return views.PageData{Head: a.head, Runtime: a.runtime}
}
