package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsScripts(t *testing.T) {
	out := Sanitize(`<p>hello</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>hello</p>")
	assert.NotContains(t, out, "script")
}

func TestSanitizeKeepsFormatting(t *testing.T) {
	out := Sanitize(`<strong>bold</strong> and <em>italic</em>`)
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<em>italic</em>")
}

func TestSanitizeStrictStripsAllHTML(t *testing.T) {
	out := SanitizeStrict(`<b>title</b> <img src=x onerror=alert(1)>`)
	assert.NotContains(t, out, "<")
	assert.Contains(t, out, "title")
}
