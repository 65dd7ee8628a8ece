package head

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullYAML = `
title: MAHABHARATA AI SAGE
devtools: true
meta:
  - charset: utf-8
  - name: viewport
    content: width=device-width, initial-scale=1
  - name: description
    content: "The Mahabharata, an ancient Indian epic of duty, love, and vengeance. This legendary tale explores complex relationships and the eternal struggle between righteousness and darkness. Dive in and uncover its timeless wisdom."
  - name: author
    content: Siddhant Agarwal
  - property: og:type
    content: website
  - property: og:url
    content: https://mb-aisage.netlify.app/
  - property: og:title
    content: Mahabharata AI Sage
  - property: og:description
    content: Explore the legends, warriors, and dharma of the Kurukshetra with our AI-powered Mahabharata Sage.
  - property: og:image
    content: https://raw.githubusercontent.com/sidagarwal04/mahabharata-genai/refs/heads/main/images/mb_2_0.png
  - name: twitter:card
    content: summary_large_image
  - name: twitter:title
    content: Mahabharata AI Sage
  - name: twitter:description
    content: Explore the legends, warriors, and dharma of the Kurukshetra.
  - name: twitter:image
    content: https://raw.githubusercontent.com/sidagarwal04/mahabharata-genai/refs/heads/main/images/mb_2_0.png
link:
  - {rel: icon, type: image/x-icon, href: /favicon.ico?v=2}
  - {rel: icon, type: image/png, href: /favicon.png?v=2}
css:
  - /assets/css/main.css
gtag_id: G-W94XSCNS7C
organization:
  url: https://mb-aisage.netlify.app/
  logo: https://raw.githubusercontent.com/sidagarwal04/mahabharata-genai/refs/heads/main/images/mb_2_0.png
  name: Mahabharata AI Sage
`

func TestParseMatchesFullProfile(t *testing.T) {
	d, err := Parse([]byte(fullYAML))
	require.NoError(t, err)
	assert.Equal(t, Full(), d)
}

func TestParseExplicitScriptsComeFirst(t *testing.T) {
	d, err := Parse([]byte(`
title: t
script:
  - src: https://cdn.example/a.js
    async: true
  - body: console.log(1)
    type: text/javascript
gtag_id: G-1
`))
	require.NoError(t, err)
	require.Len(t, d.Scripts, 4)
	assert.Equal(t, "https://cdn.example/a.js", d.Scripts[0].Src)
	assert.Equal(t, "console.log(1)", d.Scripts[1].Body)
	assert.Contains(t, d.Scripts[2].Src, "googletagmanager")
}

func TestParseRejectsAmbiguousMeta(t *testing.T) {
	_, err := Parse([]byte(`
title: t
meta:
  - name: a
    property: b
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "meta[0]")
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("title: t\nfavicon: /x.ico\n"))
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	d, err := Parse(nil)
	require.NoError(t, err)
	assert.Error(t, d.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "head.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullYAML), 0o644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, SiteTitle, d.Title)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
