package head

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// RuntimeConfigGlobal is the window property holding the public runtime config.
const RuntimeConfigGlobal = "__SAGE__"

var inlineEscaper = strings.NewReplacer("</", `<\/`)

// Head returns a templ.Component that renders d as a <head> element.
func Head(d Descriptor, rc RuntimeConfig) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, d, rc)
	})
}

// Render writes the <head> element for d. Charset metas come first so the
// browser sees them within the first 1024 bytes, followed by the title, the
// remaining metas, links, stylesheets, scripts and finally the runtime config.
func Render(w io.Writer, d Descriptor, rc RuntimeConfig) error {
	var buf bytes.Buffer
	buf.WriteString("<head>\n")
	for _, m := range d.Meta {
		if m.Key == KeyCharset {
			buf.WriteString(`<meta charset="` + templ.EscapeString(m.Name) + "\">\n")
		}
	}
	buf.WriteString("<title>" + templ.EscapeString(d.Title) + "</title>\n")
	for _, m := range d.Meta {
		if m.Key == KeyCharset {
			continue
		}
		buf.WriteString("<meta " + string(m.Key) + `="` + templ.EscapeString(m.Name) +
			`" content="` + templ.EscapeString(m.Content) + "\">\n")
	}
	for _, l := range d.Links {
		buf.WriteString(`<link rel="` + templ.EscapeString(l.Rel) + `"`)
		if l.Type != "" {
			buf.WriteString(` type="` + templ.EscapeString(l.Type) + `"`)
		}
		buf.WriteString(` href="` + templ.EscapeString(l.Href) + "\">\n")
	}
	for _, css := range d.Stylesheets {
		buf.WriteString(`<link rel="stylesheet" href="` + templ.EscapeString(css) + "\">\n")
	}
	for _, s := range d.Scripts {
		writeScript(&buf, s)
	}
	cfg, err := json.Marshal(rc)
	if err != nil {
		return err
	}
	buf.WriteString("<script>window." + RuntimeConfigGlobal + "=" + string(cfg) + ";</script>\n")
	buf.WriteString("</head>")
	_, err = w.Write(buf.Bytes())
	return err
}

func writeScript(buf *bytes.Buffer, s Script) {
	buf.WriteString("<script")
	if s.Type != "" {
		buf.WriteString(` type="` + templ.EscapeString(s.Type) + `"`)
	}
	if !s.Inline() {
		buf.WriteString(` src="` + templ.EscapeString(s.Src) + `"`)
		if s.Async {
			buf.WriteString(" async")
		}
		buf.WriteString("></script>\n")
		return
	}
	buf.WriteString(">" + inlineEscaper.Replace(s.Body) + "</script>\n")
}

// String renders d into a string. Errors can only come from the runtime
// config encoding, which cannot fail for RuntimeConfig.
func String(d Descriptor, rc RuntimeConfig) string {
	var b strings.Builder
	_ = Render(&b, d, rc)
	return b.String()
}
