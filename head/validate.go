package head

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDescriptor wraps every validation failure.
var ErrInvalidDescriptor = errors.New("head: invalid descriptor")

// Validate reports every problem in d at once.
func (d Descriptor) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, errors.New("title is empty"))
	}
	charsets := 0
	for i, m := range d.Meta {
		switch m.Key {
		case KeyCharset:
			charsets++
			if m.Name == "" {
				errs = append(errs, fmt.Errorf("meta[%d]: charset is empty", i))
			}
		case KeyName, KeyProperty:
			if m.Name == "" {
				errs = append(errs, fmt.Errorf("meta[%d]: %s is empty", i, m.Key))
			}
		default:
			errs = append(errs, fmt.Errorf("meta[%d]: unknown key %q", i, m.Key))
		}
	}
	if charsets > 1 {
		errs = append(errs, fmt.Errorf("meta: %d charset tags, want at most 1", charsets))
	}
	for i, l := range d.Links {
		if l.Rel == "" || l.Href == "" {
			errs = append(errs, fmt.Errorf("link[%d]: rel and href are required", i))
		}
	}
	for i, s := range d.Scripts {
		switch {
		case s.Src != "" && s.Body != "":
			errs = append(errs, fmt.Errorf("script[%d]: src and body are mutually exclusive", i))
		case s.Src == "" && s.Body == "":
			errs = append(errs, fmt.Errorf("script[%d]: src or body is required", i))
		case s.Inline() && s.Type == "":
			errs = append(errs, fmt.Errorf("script[%d]: inline script needs a type", i))
		case s.Inline() && s.Async:
			errs = append(errs, fmt.Errorf("script[%d]: async has no effect on inline scripts", i))
		}
	}
	for i, css := range d.Stylesheets {
		if css == "" {
			errs = append(errs, fmt.Errorf("css[%d]: empty path", i))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidDescriptor, errors.Join(errs...))
}
