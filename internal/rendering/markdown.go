package rendering

import (
	"bytes"
	"html/template"
	"log"
	"strings"

	"github.com/yuin/goldmark"
)

// markdown renders summaries. The default goldmark renderer drops raw HTML, so the output
// is safe to embed unescaped.
var markdown = goldmark.New()

// Markdown converts a summary's Markdown into HTML. On failure the text is escaped
// and wrapped in a single paragraph.
func Markdown(source string) template.HTML {
	source = strings.TrimSpace(source)
	if source == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		log.Printf("[render] markdown conversion failed, falling back to plain text: %v", err)
		return paragraph(source)
	}
	return template.HTML(strings.TrimSpace(buf.String()))
}

// paragraph escapes plain text into one <p> element.
func paragraph(text string) template.HTML {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
}
