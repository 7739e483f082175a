package textract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockElements end a line of text when rendered
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "header": true, "footer": true,
	"li": true, "ul": true, "ol": true, "tr": true, "table": true, "br": true, "hr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"dt": true, "dd": true, "blockquote": true, "pre": true, "address": true,
}

// headingElements start a new paragraph
var headingElements = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "section": true,
}

func extractHTML(data []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, template").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	var sb strings.Builder
	for _, node := range body.Nodes {
		renderNode(&sb, node)
	}

	return &Document{Text: tidyLines(sb.String()), PageCount: 1}, nil
}

func renderNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		text := strings.Join(strings.Fields(n.Data), " ")
		if text == "" {
			return
		}
		if startsWithSpace(n.Data) {
			sb.WriteString(" ")
		}
		sb.WriteString(text)
		if endsWithSpace(n.Data) {
			sb.WriteString(" ")
		}
		return
	case html.ElementNode:
		switch {
		case headingElements[n.Data]:
			paragraphBreak(sb)
		case n.Data == "li":
			lineBreak(sb)
			sb.WriteString("• ")
		case blockElements[n.Data]:
			lineBreak(sb)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderNode(sb, c)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] {
		lineBreak(sb)
	}
}

func lineBreak(sb *strings.Builder) {
	if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
}

func paragraphBreak(sb *strings.Builder) {
	if sb.Len() == 0 {
		return
	}
	lineBreak(sb)
	if !strings.HasSuffix(sb.String(), "\n\n") {
		sb.WriteString("\n")
	}
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t\n\r") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t\n\r") != s
}

// tidyLines trims every line and keeps at most one blank line between paragraphs.
func tidyLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
