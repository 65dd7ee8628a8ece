package head

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileDescriptor is the on-disk YAML shape of a Descriptor.
//
//	title: MAHABHARATA AI SAGE
//	meta:
//	  - charset: utf-8
//	  - name: viewport
//	    content: width=device-width, initial-scale=1
//	  - property: og:type
//	    content: website
//	link:
//	  - {rel: icon, type: image/x-icon, href: /favicon.ico?v=2}
//	script:
//	  - {src: https://example.com/x.js, async: true}
//	css: [/assets/css/main.css]
//	gtag_id: G-XXXX
//	organization: {url: ..., logo: ..., name: ...}
type fileDescriptor struct {
	Title        string            `yaml:"title"`
	Meta         []fileMeta        `yaml:"meta"`
	Link         []fileLink        `yaml:"link"`
	Script       []fileScript      `yaml:"script"`
	CSS          []string          `yaml:"css"`
	Devtools     bool              `yaml:"devtools"`
	GtagID       string            `yaml:"gtag_id"`
	Organization *fileOrganization `yaml:"organization"`
}

type fileMeta struct {
	Charset  string `yaml:"charset"`
	Name     string `yaml:"name"`
	Property string `yaml:"property"`
	Content  string `yaml:"content"`
}

type fileLink struct {
	Rel  string `yaml:"rel"`
	Type string `yaml:"type"`
	Href string `yaml:"href"`
}

type fileScript struct {
	Src   string `yaml:"src"`
	Body  string `yaml:"body"`
	Type  string `yaml:"type"`
	Async bool   `yaml:"async"`
}

type fileOrganization struct {
	URL  string `yaml:"url"`
	Logo string `yaml:"logo"`
	Name string `yaml:"name"`
}

// LoadFile reads a YAML descriptor from path.
func LoadFile(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read head file: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a YAML descriptor. Unknown keys are rejected. Generated
// scripts (gtag_id, then organization) are appended after explicit ones.
func Parse(data []byte) (Descriptor, error) {
	var f fileDescriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Descriptor{}, fmt.Errorf("parse head yaml: %w", err)
	}

	d := Descriptor{
		Title:       f.Title,
		Stylesheets: f.CSS,
		Devtools:    f.Devtools,
	}
	for i, m := range f.Meta {
		meta, err := m.toMeta()
		if err != nil {
			return Descriptor{}, fmt.Errorf("meta[%d]: %w", i, err)
		}
		d.Meta = append(d.Meta, meta)
	}
	for _, l := range f.Link {
		d.Links = append(d.Links, Link{Rel: l.Rel, Type: l.Type, Href: l.Href})
	}
	for _, s := range f.Script {
		d.Scripts = append(d.Scripts, Script{Src: s.Src, Body: s.Body, Type: s.Type, Async: s.Async})
	}
	d.Scripts = append(d.Scripts, GoogleAnalytics(f.GtagID)...)
	if f.Organization != nil {
		d.Scripts = append(d.Scripts, OrganizationScript(Organization{
			URL:  f.Organization.URL,
			Logo: f.Organization.Logo,
			Name: f.Organization.Name,
		}))
	}
	return d, nil
}

func (m fileMeta) toMeta() (Meta, error) {
	set := 0
	var out Meta
	if m.Charset != "" {
		set++
		out = Meta{Key: KeyCharset, Name: m.Charset}
	}
	if m.Name != "" {
		set++
		out = Meta{Key: KeyName, Name: m.Name, Content: m.Content}
	}
	if m.Property != "" {
		set++
		out = Meta{Key: KeyProperty, Name: m.Property, Content: m.Content}
	}
	if set != 1 {
		return Meta{}, errors.New("exactly one of charset, name or property is required")
	}
	return out, nil
}
