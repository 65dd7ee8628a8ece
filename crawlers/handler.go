package crawlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/sage/logger"
)

const maxUserAgentLen = 512

// Recorder is the write side of the crawl log.
type Recorder interface {
	Save(ctx context.Context, v Visit) error
	HashIP(ip string) string
}

// Middleware records GET requests made by crawlers. Recording failures are
// logged and never fail the request.
func Middleware(rec Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ua := req.UserAgent()
			if req.Method != http.MethodGet || !IsCrawler(ua) {
				return next(c)
			}
			if len(ua) > maxUserAgentLen {
				ua = ua[:maxUserAgentLen]
			}
			v := Visit{
				Name:      Name(ua),
				IPHash:    rec.HashIP(c.RealIP()),
				UserAgent: ua,
				Path:      req.URL.Path,
				Timestamp: time.Now().UTC(),
			}
			if err := rec.Save(req.Context(), v); err != nil {
				logger.FromContext(req.Context()).Error().Err(err).Str("crawler", v.Name).Msg("record crawler visit")
			}
			return next(c)
		}
	}
}

// Handler serves crawl log statistics.
type Handler struct {
	store *Store
	now   func() time.Time
}

// NewHandler returns a Handler reading from store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

// StatsResponse is the JSON body of GET /api/crawlers/stats.
type StatsResponse struct {
	Stats      *Stats `json:"stats"`
	Period     string `json:"period"`
	PeriodDays int    `json:"period_days"`
}

// GetStats returns crawler statistics for ?period=today|week|month|year.
func (h *Handler) GetStats(c echo.Context) error {
	period, days := parsePeriod(c.QueryParam("period"))
	from, to := calcTimeRange(h.now(), days)

	stats, err := h.store.Stats(c.Request().Context(), from, to)
	if err != nil {
		logger.FromContext(c.Request().Context()).Error().Err(err).Msg("crawler stats")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, StatsResponse{Stats: stats, Period: period, PeriodDays: days})
}

// RegisterRoutes mounts the stats endpoint on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/crawlers/stats", h.GetStats)
}
