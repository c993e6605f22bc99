// Package resume converts uploaded resume documents into plain text.
package resume

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls plain text from a PDF held in memory. An unreadable
// document or one with no extractable text returns an error so the caller
// can preserve any previously stored resume.
func ExtractText(data []byte) (text string, err error) {
	// The pdf parser panics on some malformed files; surface that as an
	// ordinary extraction error.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("unreadable document: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue // skip pages the parser cannot handle
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("no extractable text in document")
	}
	return out, nil
}
