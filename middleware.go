package sage

import (
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/sage/crawlers"
)

const gtagOrigin = "https://www.googletagmanager.com"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Use(a.Log.RequestLogger())
	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/favicon.ico" || p == "/favicon.png"
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy(a.runtime.Public.APIBase),
		HSTSMaxAge:            31536000,
	}))

	e.Use(cacheControlMiddleware)

	if a.crawlerStore != nil {
		rec := crawlers.Middleware(a.crawlerStore)
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			logged := rec(next)
			return func(c echo.Context) error {
				if strings.HasPrefix(c.Request().URL.Path, "/api/") {
					return next(c)
				}
				return logged(c)
			}
		})
	}
}

// contentSecurityPolicy allows the analytics loader and lets the browser
// app talk to the chat API origin.
func contentSecurityPolicy(apiBase string) string {
	connect := []string{"'self'", gtagOrigin, "https://www.google-analytics.com"}
	if origin := originOf(apiBase); origin != "" {
		connect = append(connect, origin)
	}
	return strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline' " + gtagOrigin,
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' https: data:",
		"font-src 'self'",
		"connect-src " + strings.Join(connect, " "),
		"media-src 'self' data: blob:",
	}, "; ")
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		h := c.Response().Header()
		switch {
		case strings.HasPrefix(path, "/assets/"):
			h.Set("Cache-Control", "public, max-age=86400")
		case path == "/favicon.ico" || path == "/favicon.png":
			h.Set("Cache-Control", "public, max-age=604800")
		case path == "/sitemap.xml" || path == "/robots.txt":
			h.Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/api/"):
			h.Set("Cache-Control", "no-store")
		default:
			h.Set("Cache-Control", "public, max-age=300")
		}
		return next(c)
	}
}
