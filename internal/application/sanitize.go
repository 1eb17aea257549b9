package application

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdRenderer    goldmark.Markdown
	notesPolicy   *bluemonday.Policy
	previewPolicy *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	// The prompt restricts generated output to this tag subset; the policy
	// enforces it server-side regardless of what the model actually emits.
	notesPolicy = bluemonday.NewPolicy()
	notesPolicy.AllowElements(
		"h1", "h2", "h3", "p", "ul", "ol", "li", "sup", "sub", "br",
		"em", "strong", "b", "i",
		"math", "mrow", "mfrac", "msqrt", "mroot", "mi", "mn", "mo",
		"msub", "msup", "msubsup", "munder", "mover", "munderover",
		"mtext", "mspace", "mtable", "mtr", "mtd",
	)

	previewPolicy = bluemonday.StrictPolicy()
}

// RenderNotesHTML post-processes generated content into storable HTML.
// Content with no HTML markup at all is treated as markdown and converted
// first; everything is then sanitized down to the allowed tag subset.
func RenderNotesHTML(content string) string {
	if content == "" {
		return ""
	}

	if !strings.Contains(content, "<") {
		var buf bytes.Buffer
		if err := mdRenderer.Convert([]byte(content), &buf); err == nil {
			content = buf.String()
		}
	}

	return strings.TrimSpace(notesPolicy.Sanitize(content))
}

// NotePreview strips all markup and returns the first maxLen characters of
// the note text, for list views.
func NotePreview(notesHTML string, maxLen int) string {
	// Pad tag boundaries so adjacent blocks don't concatenate into one word.
	padded := strings.ReplaceAll(notesHTML, "<", " <")
	text := strings.Join(strings.Fields(previewPolicy.Sanitize(padded)), " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}
