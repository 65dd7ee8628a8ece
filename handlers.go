package sage

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/sage/logger"
	"github.com/eringen/sage/upstream"
	"github.com/eringen/sage/views"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status   string         `json:"status"`
	Upstream UpstreamHealth `json:"upstream"`
}

// UpstreamHealth reports what the chat API said about itself.
type UpstreamHealth struct {
	URL    string `json:"url"`
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ExamplesResponse is the body of GET /api/examples.
type ExamplesResponse struct {
	Examples []string `json:"examples"`
	Source   string   `json:"source"`
}

func (a *App) handlePage(c echo.Context) error {
	page, err := a.pages.Page(c.Request().Context())
	if err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, page)
}

func (a *App) handleRuntimeConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, a.runtime)
}

func (a *App) handleHealth(c echo.Context) error {
	resp := HealthResponse{
		Status:   "ok",
		Upstream: UpstreamHealth{URL: a.upstreamURL},
	}
	h, err := a.upstream.Health(c.Request().Context())
	if err != nil {
		logger.FromContext(c.Request().Context()).Warn().Err(err).Msg("upstream health")
		resp.Upstream.Status = "unreachable"
		resp.Upstream.Error = err.Error()
		return c.JSON(http.StatusOK, resp)
	}
	resp.Upstream.Status = h.Status
	resp.Upstream.Model = h.Model
	return c.JSON(http.StatusOK, resp)
}

func (a *App) handleExamples(c echo.Context) error {
	examples, err := a.upstream.Examples(c.Request().Context())
	if err != nil || len(examples) == 0 {
		if err != nil {
			logger.FromContext(c.Request().Context()).Warn().Err(err).Msg("upstream examples, using built-in list")
		}
		return c.JSON(http.StatusOK, ExamplesResponse{Examples: upstream.DefaultExamples, Source: "builtin"})
	}
	return c.JSON(http.StatusOK, ExamplesResponse{Examples: examples, Source: "upstream"})
}

// handleStaticFile serves name from the static dir, falling back to the
// embedded copy.
func (a *App) handleStaticFile(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := filepath.Join(a.Config.StaticDir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return c.File(p)
		}
		return serveEmbedded(c, path.Join("embedded", name))
	}
}

// handleAsset serves /assets/* from the static dir and falls back to the
// embedded stylesheet so the page is styled without a public/ directory.
func (a *App) handleAsset(c echo.Context) error {
	rel := strings.TrimPrefix(path.Clean("/"+c.Param("*")), "/")
	if rel == "" {
		return echo.ErrNotFound
	}
	p := filepath.Join(a.Config.StaticDir, "assets", filepath.FromSlash(rel))
	if info, err := os.Stat(p); err == nil && !info.IsDir() {
		return c.File(p)
	}
	return serveEmbedded(c, path.Join(embeddedAssetRoot, rel))
}

func serveEmbedded(c echo.Context, name string) error {
	data, err := fs.ReadFile(EmbeddedAssets, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return echo.ErrNotFound
		}
		return err
	}
	return c.Blob(http.StatusOK, contentTypeFor(name), data)
}

func contentTypeFor(name string) string {
	switch path.Ext(name) {
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return echo.MIMEApplicationJavaScriptCharsetUTF8
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	default:
		return echo.MIMEOctetStream
	}
}

func (a *App) handleRobots(c echo.Context) error {
	p := filepath.Join(a.Config.StaticDir, "robots.txt")
	if _, err := os.Stat(p); err == nil {
		return c.File(p)
	}
	return c.String(http.StatusOK, robotsTxt(a.Config.URL))
}

func robotsTxt(siteURL string) string {
	return "User-agent: *\nAllow: /\nDisallow: /api/\n\nSitemap: " + strings.TrimSuffix(siteURL, "/") + "/sitemap.xml\n"
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		if code >= 500 {
			logger.FromContext(c.Request().Context()).Error().Err(err).Msg("api error")
		}
		a.Echo.DefaultHTTPErrorHandler(err, c)
		return
	}
	switch {
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, views.NotFound(a.pageView()))
	case code >= 500:
		logger.FromContext(c.Request().Context()).Error().Err(err).Msg("server error")
		_ = RenderStatus(c, code, views.ServerError(a.pageView()))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
