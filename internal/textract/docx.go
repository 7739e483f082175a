package textract

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

func extractDOCX(data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, errors.New("empty docx data")
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	text, err := stripDocxXML(doc.Editable().GetContent())
	if err != nil {
		return nil, fmt.Errorf("failed to decode document.xml: %w", err)
	}

	pages := 1 + strings.Count(text, "\f")
	return &Document{Text: strings.ReplaceAll(text, "\f", "\n\n"), PageCount: pages}, nil
}

// stripDocxXML turns WordprocessingML into text with one line per paragraph.
// Only w:t runs carry text. Explicit page breaks are kept as form feeds.
func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var (
		sb  strings.Builder
		inT int
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			if inT > 0 {
				sb.Write(t)
			}
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inT++
			case "tab":
				sb.WriteString("\t")
			case "br":
				if attrValue(t.Attr, "type") == "page" {
					sb.WriteString("\f")
				} else {
					sb.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inT--
			case "p":
				sb.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func attrValue(attrs []xml.Attr, local string) string {
	for _, attr := range attrs {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
