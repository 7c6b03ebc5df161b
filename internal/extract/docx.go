package extract

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// DocxExtractor extracts text from Word Open XML (.docx) files using the
// docx library. It is stateless and safe for concurrent use.
type DocxExtractor struct{}

// NewDocxExtractor returns a ready-to-use DocxExtractor.
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

var _ Extractor = (*DocxExtractor)(nil)

type extractResult struct {
	text string
	err  error
}

// Text opens the .docx file at path and returns its plain text. The library
// call has no cancellation hook, so it runs in a goroutine raced against ctx;
// on deadline the call is abandoned and ctx's error returned.
func (e *DocxExtractor) Text(ctx context.Context, path string) (string, error) {
	ch := make(chan extractResult, 1)
	go func() {
		text, err := extractFile(path)
		ch <- extractResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("extract %s: %w", path, ctx.Err())
	case res := <-ch:
		return res.text, res.err
	}
}

func extractFile(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the raw document.xml markup; flatten it to text.
	return flattenDocumentXML(doc.Editable().GetContent())
}

// flattenDocumentXML walks WordprocessingML markup and keeps only the visible
// text: w:t character data, with tabs and explicit breaks preserved and a
// newline per paragraph.
func flattenDocumentXML(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var b strings.Builder
	depth := 0 // nesting depth of w:t elements
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				depth++
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				depth--
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if depth > 0 {
				b.Write(t)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}
