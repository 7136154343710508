package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerText(t *testing.T) {
	s := NewSanitizer()

	assert.Equal(t, "Hello world", s.Text("<b>Hello</b> <script>alert(1)</script>world"))
	assert.Equal(t, "Tom & Jerry", s.Text("  Tom & Jerry "))
	assert.Equal(t, "", s.Text("<img src=x onerror=alert(1)>"))
}
