package head

import (
	"encoding/json"
	"net/url"
	"strings"
)

const (
	gtagLoaderURL = "https://www.googletagmanager.com/gtag/js?id="

	TypeJavaScript = "text/javascript"
	TypeJSONLD     = "application/ld+json"
)

var jsStringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "<", `\x3c`)

// GoogleAnalytics returns the gtag.js loader and its inline bootstrap for
// measurementID. An empty id yields no scripts.
func GoogleAnalytics(measurementID string) []Script {
	if measurementID == "" {
		return nil
	}
	id := jsStringEscaper.Replace(measurementID)
	body := "window.dataLayer = window.dataLayer || [];\n" +
		"function gtag(){dataLayer.push(arguments);}\n" +
		"gtag('js', new Date());\n" +
		"gtag('config', '" + id + "');"
	return []Script{
		{Src: gtagLoaderURL + url.QueryEscape(measurementID), Async: true},
		{Body: body, Type: TypeJavaScript},
	}
}

// organizationLD keeps the JSON-LD keys in schema.org's conventional order.
type organizationLD struct {
	Context string `json:"@context"`
	Type    string `json:"@type"`
	URL     string `json:"url,omitempty"`
	Logo    string `json:"logo,omitempty"`
	Name    string `json:"name"`
}

// OrganizationJSONLD produces a compact Schema.org Organization block.
func OrganizationJSONLD(org Organization) string {
	b, err := json.Marshal(organizationLD{
		Context: "https://schema.org",
		Type:    "Organization",
		URL:     org.URL,
		Logo:    org.Logo,
		Name:    org.Name,
	})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// OrganizationScript wraps OrganizationJSONLD in an inline JSON-LD script.
func OrganizationScript(org Organization) Script {
	return Script{Body: OrganizationJSONLD(org), Type: TypeJSONLD}
}
