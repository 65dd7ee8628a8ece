package head

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfilesAreValid(t *testing.T) {
	require.NoError(t, Full().Validate())
	require.NoError(t, Minimal().Validate())
}

func TestValidateCollectsAllErrors(t *testing.T) {
	d := Descriptor{
		Meta: []Meta{
			{Key: KeyCharset, Name: "utf-8"},
			{Key: KeyCharset, Name: "utf-16"},
			{Key: "http-equiv", Name: "refresh"},
			{Key: KeyName},
		},
		Links: []Link{{Rel: "icon"}},
		Scripts: []Script{
			{Src: "https://a.example/a.js", Body: "x"},
			{},
			{Body: "x"},
			{Body: "x", Type: TypeJavaScript, Async: true},
		},
		Stylesheets: []string{""},
	}

	err := d.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	msg := err.Error()
	for _, want := range []string{
		"title is empty",
		"2 charset tags",
		`unknown key "http-equiv"`,
		"meta[3]: name is empty",
		"link[0]: rel and href are required",
		"script[0]: src and body are mutually exclusive",
		"script[1]: src or body is required",
		"script[2]: inline script needs a type",
		"script[3]: async has no effect",
		"css[0]: empty path",
	} {
		assert.Contains(t, msg, want)
	}
}
