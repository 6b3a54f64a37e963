// Package pdf turns generated documents into printable PDF files.
package pdf

import (
	"bytes"
	"fmt"
	"html"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// DocumentTitle is set as the HTML title and therefore the PDF title
const DocumentTitle = "Generated Document"

const pageTemplate = `<!DOCTYPE html>
<html lang="en-GB">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
@page { size: Letter; margin: 0.55in; }
body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; line-height: 1.4; color: #111; }
h1 { font-size: 16pt; margin: 0 0 6pt; }
h2 { font-size: 12pt; margin: 12pt 0 4pt; border-bottom: 1px solid #999; }
h3 { font-size: 10.5pt; margin: 8pt 0 2pt; }
p { margin: 0 0 6pt; }
ul, ol { margin: 0 0 6pt 16pt; padding: 0; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 2pt 4pt; }
</style>
</head>
<body>
%s
</body>
</html>
`

var (
	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdown = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// Generated documents rely on single newlines for layout.
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		)
	})
	return markdown
}

// ToHTML renders text (plain or markdown) into a complete HTML page.
// Raw HTML in the input is escaped by goldmark's default renderer.
func ToHTML(text string) (string, error) {
	var body bytes.Buffer
	if err := getMarkdown().Convert([]byte(text), &body); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return fmt.Sprintf(pageTemplate, html.EscapeString(DocumentTitle), body.String()), nil
}
