package sage

import "embed"

const embeddedAssetRoot = "embedded/assets"

// EmbeddedAssets holds the fallback stylesheet served under /assets/ and the
// default favicons, used when the static dir does not provide them.
//
//go:embed embedded/assets embedded/favicon.ico embedded/favicon.png
var EmbeddedAssets embed.FS
