package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF reads the embedded text layer of PDF labels. Scanned PDFs without a
// text layer yield empty text.
type PDF struct{}

// ExtractText implements Extractor.
func (PDF) ExtractText(_ context.Context, doc Document) (string, error) {
	if !doc.IsPDF() {
		return "", fmt.Errorf("%w: %s is not a pdf", ErrUnsupported, doc.MIMEType)
	}
	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}
