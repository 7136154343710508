package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Café Backend v2!":      "cafe-backend-v2",
		"  Hello,   World  ":    "hello-world",
		"Go & PostgreSQL":       "go-postgresql",
		"日本語":                   "",
		"already-a-slug":        "already-a-slug",
		"Ünïcödé --- Title___x": "unicode-title-x",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}

	long := Slugify("a-very-long-title-that-keeps-going-and-going-and-going-well-past-the-limit-of-eighty-chars")
	assert.LessOrEqual(t, len(long), maxSlugLength)
	assert.NotEqual(t, byte('-'), long[len(long)-1])
}
