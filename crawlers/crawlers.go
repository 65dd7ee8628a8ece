// Package crawlers records which link-preview and search bots fetch the site.
//
// Social networks scrape the OpenGraph and Twitter tags of a page when a link
// is shared; the crawl log shows whether (and how often) that happens.
package crawlers

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Visit is a single crawler fetch.
type Visit struct {
	Name      string    `json:"name"`
	IPHash    string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats aggregates crawler visits over a period.
type Stats struct {
	Period   string          `json:"period"`
	Total    int             `json:"total"`
	TopBots  []DimensionStat `json:"top_bots"`
	TopPages []PageStat      `json:"top_pages"`
	Daily    []DailyCount    `json:"daily"`
}

// DimensionStat is a name/count pair.
type DimensionStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PageStat counts hits per path.
type PageStat struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// DailyCount counts hits per day (YYYY-MM-DD).
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// knownCrawlers maps a lowercase user-agent fragment to a display name.
// Order matters: link-preview agents often also contain "bot".
var knownCrawlers = []struct {
	pattern string
	name    string
}{
	{"facebookexternalhit", "Facebook"},
	{"facebookcatalog", "Facebook"},
	{"twitterbot", "Twitter"},
	{"linkedinbot", "LinkedIn"},
	{"slackbot", "Slack"},
	{"discordbot", "Discord"},
	{"whatsapp", "WhatsApp"},
	{"telegrambot", "Telegram"},
	{"redditbot", "Reddit"},
	{"pinterest", "Pinterest"},
	{"skypeuripreview", "Skype"},
	{"applebot", "Apple"},
	{"googlebot", "Googlebot"},
	{"google-inspectiontool", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"duckduckbot", "DuckDuckBot"},
	{"yandex", "Yandex"},
	{"baiduspider", "Baidu"},
	{"slurp", "Yahoo Slurp"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
}

var genericMarkers = []string{"bot", "crawler", "spider", "crawl", "scrape", "preview"}

// IsCrawler reports whether ua looks like an automated fetcher.
func IsCrawler(ua string) bool {
	ua = strings.ToLower(ua)
	if ua == "" {
		return false
	}
	for _, c := range knownCrawlers {
		if strings.Contains(ua, c.pattern) {
			return true
		}
	}
	for _, m := range genericMarkers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

// Name returns a display name for the crawler behind ua.
func Name(ua string) string {
	ua = strings.ToLower(ua)
	for _, c := range knownCrawlers {
		if strings.Contains(ua, c.pattern) {
			return c.name
		}
	}
	if IsCrawler(ua) {
		return "Other"
	}
	return "Unknown"
}

func hashIP(salt, ip string) string {
	h := sha256.New()
	h.Write([]byte(salt + ip))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// parsePeriod maps a period name to a day count; unknown names mean "week".
func parsePeriod(period string) (string, int) {
	switch period {
	case "today":
		return period, 1
	case "week":
		return period, 7
	case "month":
		return period, 30
	case "year":
		return period, 365
	default:
		return "week", 7
	}
}

// calcTimeRange returns [from, to) covering the last days days through the
// end of today (UTC).
func calcTimeRange(now time.Time, days int) (time.Time, time.Time) {
	to := now.UTC().Add(24 * time.Hour).Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -days)
	return from, to
}
