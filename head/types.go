// Package head describes and renders the document <head> of the site:
// title, meta tags, icon links, stylesheets, analytics and JSON-LD scripts.
//
// A Descriptor is built once at startup and treated as read-only afterwards.
// Rendering is a pure function of the descriptor and the runtime config, so
// the same inputs always produce the same bytes.
package head

// MetaKey selects which attribute names a meta tag.
type MetaKey string

const (
	KeyCharset  MetaKey = "charset"
	KeyName     MetaKey = "name"
	KeyProperty MetaKey = "property"
)

// Meta is a single <meta> element. For KeyCharset, Name holds the charset
// and Content is unused.
type Meta struct {
	Key     MetaKey `json:"key"`
	Name    string  `json:"name"`
	Content string  `json:"content,omitempty"`
}

// Link is a single <link> element.
type Link struct {
	Rel  string `json:"rel"`
	Type string `json:"type,omitempty"`
	Href string `json:"href"`
}

// Script is either an external script (Src) or an inline one (Body).
type Script struct {
	Src   string `json:"src,omitempty"`
	Body  string `json:"body,omitempty"`
	Type  string `json:"type,omitempty"`
	Async bool   `json:"async,omitempty"`
}

// Inline reports whether the script carries its own body.
func (s Script) Inline() bool {
	return s.Src == ""
}

// Organization feeds the schema.org Organization JSON-LD block.
type Organization struct {
	URL  string
	Logo string
	Name string
}

// Descriptor is the full set of site metadata placed in every page head.
type Descriptor struct {
	Title       string   `json:"title"`
	Meta        []Meta   `json:"meta"`
	Links       []Link   `json:"link"`
	Scripts     []Script `json:"script"`
	Stylesheets []string `json:"css"`
	Devtools    bool     `json:"devtools"`
}

// RuntimeConfig is the client-visible runtime configuration embedded in the
// page. Only the public section is ever sent to browsers.
type RuntimeConfig struct {
	Public PublicConfig `json:"public"`
}

// PublicConfig holds values client code may read.
type PublicConfig struct {
	APIBase string `json:"apiBase"`
}

// Clone returns a deep copy so callers never share slices with d.
func (d Descriptor) Clone() Descriptor {
	out := d
	out.Meta = append([]Meta(nil), d.Meta...)
	out.Links = append([]Link(nil), d.Links...)
	out.Scripts = append([]Script(nil), d.Scripts...)
	out.Stylesheets = append([]string(nil), d.Stylesheets...)
	return out
}

// Icon returns the first rel="icon" link.
func (d Descriptor) Icon() (Link, bool) {
	for _, l := range d.Links {
		if l.Rel == "icon" {
			return l, true
		}
	}
	return Link{}, false
}

// MetaContent returns the content of the first meta whose name or property
// equals name.
func (d Descriptor) MetaContent(name string) (string, bool) {
	for _, m := range d.Meta {
		if m.Key != KeyCharset && m.Name == name {
			return m.Content, true
		}
	}
	return "", false
}
