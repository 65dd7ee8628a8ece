package head

import (
	"errors"
	"fmt"
)

// Site constants for the Mahabharata AI Sage deployment.
const (
	SiteTitle       = "MAHABHARATA AI SAGE"
	SiteName        = "Mahabharata AI Sage"
	SiteURL         = "https://mb-aisage.netlify.app/"
	SiteImage       = "https://raw.githubusercontent.com/sidagarwal04/mahabharata-genai/refs/heads/main/images/mb_2_0.png"
	SiteAuthor      = "Siddhant Agarwal"
	MeasurementID   = "G-W94XSCNS7C"
	MainStylesheet  = "/assets/css/main.css"
	FaviconICO      = "/favicon.ico?v=2"
	FaviconPNG      = "/favicon.png?v=2"
	siteDescription = "The Mahabharata, an ancient Indian epic of duty, love, and vengeance. This legendary tale explores complex relationships and the eternal struggle between righteousness and darkness. Dive in and uncover its timeless wisdom."
)

// Profile names accepted by Profile.
const (
	ProfileFull    = "full"
	ProfileMinimal = "minimal"
)

// ErrUnknownProfile is returned by Profile for names it does not know.
var ErrUnknownProfile = errors.New("head: unknown profile")

// Profile returns the descriptor registered under name. An empty name
// selects the full profile.
func Profile(name string) (Descriptor, error) {
	switch name {
	case "", ProfileFull:
		return Full(), nil
	case ProfileMinimal:
		return Minimal(), nil
	default:
		return Descriptor{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
}

// Full is the authoritative descriptor with social cards, analytics and
// structured data.
func Full() Descriptor {
	scripts := GoogleAnalytics(MeasurementID)
	scripts = append(scripts, OrganizationScript(Organization{
		URL:  SiteURL,
		Logo: SiteImage,
		Name: SiteName,
	}))
	return Descriptor{
		Title: SiteTitle,
		Meta: []Meta{
			{Key: KeyCharset, Name: "utf-8"},
			{Key: KeyName, Name: "viewport", Content: "width=device-width, initial-scale=1"},
			{Key: KeyName, Name: "description", Content: siteDescription},
			{Key: KeyName, Name: "author", Content: SiteAuthor},
			{Key: KeyProperty, Name: "og:type", Content: "website"},
			{Key: KeyProperty, Name: "og:url", Content: SiteURL},
			{Key: KeyProperty, Name: "og:title", Content: SiteName},
			{Key: KeyProperty, Name: "og:description", Content: "Explore the legends, warriors, and dharma of the Kurukshetra with our AI-powered Mahabharata Sage."},
			{Key: KeyProperty, Name: "og:image", Content: SiteImage},
			{Key: KeyName, Name: "twitter:card", Content: "summary_large_image"},
			{Key: KeyName, Name: "twitter:title", Content: SiteName},
			{Key: KeyName, Name: "twitter:description", Content: "Explore the legends, warriors, and dharma of the Kurukshetra."},
			{Key: KeyName, Name: "twitter:image", Content: SiteImage},
		},
		Links:       iconLinks(),
		Scripts:     scripts,
		Stylesheets: []string{MainStylesheet},
		Devtools:    true,
	}
}

// Minimal carries only what a browser needs to render the page: no social
// cards, no analytics.
func Minimal() Descriptor {
	return Descriptor{
		Title: SiteTitle,
		Meta: []Meta{
			{Key: KeyCharset, Name: "utf-8"},
			{Key: KeyName, Name: "viewport", Content: "width=device-width, initial-scale=1"},
			{Key: KeyName, Name: "description", Content: siteDescription},
		},
		Links:       iconLinks(),
		Stylesheets: []string{MainStylesheet},
		Devtools:    true,
	}
}

func iconLinks() []Link {
	return []Link{
		{Rel: "icon", Type: "image/x-icon", Href: FaviconICO},
		{Rel: "icon", Type: "image/png", Href: FaviconPNG},
	}
}
