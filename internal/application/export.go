package application

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/lectern-notes/lectern/internal/domain/model"
)

// Export formats for a stored note.
const (
	ExportFormatHTML     = "html"
	ExportFormatMarkdown = "markdown"
	ExportFormatText     = "text"
)

var blockClosePattern = regexp.MustCompile(`(?i)</(h1|h2|h3|p|ul|ol|li)>|<br\s*/?>`)

// Export renders a note in the requested format and returns the document
// body, its content type, and a filename suitable for a download header.
// An unknown format returns an error naming the supported values.
func Export(note model.Note, format string) (body, contentType, filename string, err error) {
	switch format {
	case ExportFormatHTML:
		return exportHTML(note), "text/html; charset=utf-8", exportFilename(note.Title) + ".html", nil
	case ExportFormatMarkdown:
		return exportMarkdown(note), "text/markdown; charset=utf-8", exportFilename(note.Title) + ".md", nil
	case ExportFormatText:
		return exportText(note), "text/plain; charset=utf-8", exportFilename(note.Title) + ".txt", nil
	default:
		return "", "", "", fmt.Errorf("unsupported export format %q: use html, markdown, or text", format)
	}
}

// exportHTML wraps the stored fragment in a standalone document so the file
// renders on its own outside the app.
func exportHTML(note model.Note) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<title>" + html.EscapeString(note.Title) + "</title>\n")
	b.WriteString("<style>body{max-width:48rem;margin:2rem auto;padding:0 1rem;font-family:Georgia,serif;line-height:1.6}</style>\n")
	b.WriteString("</head>\n<body>\n")
	if note.LectureDate != "" {
		b.WriteString("<p><em>" + html.EscapeString(note.LectureDate) + "</em></p>\n")
	}
	b.WriteString(note.NotesHTML)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// exportMarkdown emits a title heading and date line followed by the note
// text. The body keeps paragraph breaks but drops inline markup.
func exportMarkdown(note model.Note) string {
	var b strings.Builder
	b.WriteString("# " + note.Title + "\n\n")
	if note.LectureDate != "" {
		b.WriteString("*" + note.LectureDate + "*\n\n")
	}
	b.WriteString(NoteText(note.NotesHTML))
	b.WriteString("\n")
	return b.String()
}

func exportText(note model.Note) string {
	var b strings.Builder
	b.WriteString(note.Title + "\n")
	if note.LectureDate != "" {
		b.WriteString(note.LectureDate + "\n")
	}
	b.WriteString("\n")
	b.WriteString(NoteText(note.NotesHTML))
	b.WriteString("\n")
	return b.String()
}

// NoteText strips all markup from stored note HTML while preserving block
// boundaries as blank lines.
func NoteText(notesHTML string) string {
	withBreaks := blockClosePattern.ReplaceAllString(notesHTML, "\n\n")
	// Pad remaining tag boundaries so adjacent inline runs don't concatenate.
	padded := strings.ReplaceAll(withBreaks, "<", " <")
	stripped := html.UnescapeString(previewPolicy.Sanitize(padded))

	var paragraphs []string
	for _, block := range strings.Split(stripped, "\n\n") {
		line := strings.Join(strings.Fields(block), " ")
		if line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]+`)

// exportFilename derives a download filename stem from a note title.
func exportFilename(title string) string {
	stem := unsafeFilenameChars.ReplaceAllString(strings.ToLower(title), "_")
	stem = strings.Trim(stem, "_")
	if stem == "" {
		stem = "notes"
	}
	return stem
}
