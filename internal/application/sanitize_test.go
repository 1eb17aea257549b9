package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderNotesHTML_KeepsAllowedTags(t *testing.T) {
	in := "<h1>Title</h1><h2>Section</h2><p>T(n) = 2<sup>n</sup> - 1</p><ul><li>point</li></ul>" +
		"<math><mfrac><mn>1</mn><mn>2</mn></mfrac></math>"
	assert.Equal(t, in, RenderNotesHTML(in))
}

func TestRenderNotesHTML_StripsDisallowedMarkup(t *testing.T) {
	out := RenderNotesHTML(`<h1>Title</h1><script>alert(1)</script><p onclick="x()">body</p>`)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "onclick")
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<p>body</p>")
}

func TestRenderNotesHTML_MarkdownFallback(t *testing.T) {
	out := RenderNotesHTML("# Graph Theory\n\nA graph is a pair of sets.")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Graph Theory")
	assert.Contains(t, out, "<p>A graph is a pair of sets.</p>")
}

func TestRenderNotesHTML_Empty(t *testing.T) {
	assert.Equal(t, "", RenderNotesHTML(""))
}

func TestNotePreview(t *testing.T) {
	html := "<h1>Title</h1><p>body   text</p>"
	assert.Equal(t, "Title body text", NotePreview(html, 200))
	assert.Equal(t, "Title", NotePreview(html, 5))
	assert.Equal(t, "", NotePreview("", 200))
}
