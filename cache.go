package sage

import (
	"bytes"
	"context"
	"sync"

	"github.com/eringen/sage/head"
	"github.com/eringen/sage/views"
)

// pageCache holds the rendered page shell. The descriptor never changes
// after startup, so the bytes are built once on first use.
type pageCache struct {
	once sync.Once
	data views.PageData
	page []byte
	err  error
}

func newPageCache(d head.Descriptor, rc head.RuntimeConfig) *pageCache {
	return &pageCache{data: views.PageData{Head: d, Runtime: rc}}
}

// Page returns the rendered shell for GET /.
func (c *pageCache) Page(ctx context.Context) ([]byte, error) {
	c.once.Do(func() {
		var buf bytes.Buffer
		if err := views.Page(c.data).Render(ctx, &buf); err != nil {
			c.err = err
			return
		}
		c.page = buf.Bytes()
	})
	return c.page, c.err
}

