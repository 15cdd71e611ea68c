// Package extract turns label images and documents into plain text.
package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"ava/internal/config"
)

// MIME types handled specially.
const (
	MIMEPDF  = "application/pdf"
	MIMEJPEG = "image/jpeg"
	MIMEPNG  = "image/png"
)

var (
	// ErrUnsupported is returned for documents an extractor cannot read.
	ErrUnsupported = errors.New("extract: unsupported document")
	// ErrInvalidImage is returned when image data cannot be decoded.
	ErrInvalidImage = errors.New("extract: invalid image data")
)

// Document is a decoded upload.
type Document struct {
	Data     []byte
	MIMEType string
}

// IsPDF reports whether the document is a PDF.
func (d Document) IsPDF() bool {
	return strings.EqualFold(d.MIMEType, MIMEPDF)
}

// Extractor reads the text printed on a document.
type Extractor interface {
	ExtractText(ctx context.Context, doc Document) (string, error)
}

var dataURLPattern = regexp.MustCompile(`^data:([\w.+-]+/[\w.+-]+)?(;[\w=-]+)*;base64,`)

// DecodeBase64 decodes a base64 payload, optionally prefixed with a data
// URL header. The MIME type comes from the header when present and is
// sniffed from the bytes otherwise.
func DecodeBase64(payload string) (Document, error) {
	payload = strings.TrimSpace(payload)
	mimeType := ""
	if loc := dataURLPattern.FindStringSubmatchIndex(payload); loc != nil {
		if loc[2] >= 0 {
			mimeType = strings.ToLower(payload[loc[2]:loc[3]])
		}
		payload = payload[loc[1]:]
	}
	if payload == "" {
		return Document{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return Document{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
	}
	if len(data) == 0 {
		return Document{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}
	if mimeType == "" {
		mimeType = strings.ToLower(strings.SplitN(http.DetectContentType(data), ";", 2)[0])
	}
	return Document{Data: data, MIMEType: mimeType}, nil
}

// Router sends PDFs to the PDF extractor and everything else to Images.
type Router struct {
	Images Extractor
	PDF    Extractor
}

// ExtractText implements Extractor.
func (r Router) ExtractText(ctx context.Context, doc Document) (string, error) {
	if doc.IsPDF() {
		if r.PDF == nil {
			return "", fmt.Errorf("%w: pdf", ErrUnsupported)
		}
		return r.PDF.ExtractText(ctx, doc)
	}
	if r.Images == nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, doc.MIMEType)
	}
	return r.Images.ExtractText(ctx, doc)
}

// New builds the extractor selected by cfg.Provider, wrapped in a Router so
// PDFs are always read locally.
func New(ctx context.Context, cfg config.OCRConfig) (Extractor, error) {
	var images Extractor
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "mock":
		images = NewMock()
	case "rekognition", "aws":
		client, err := NewRekognition(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		images = client
	case "mistral":
		client, err := NewMistral(cfg.MistralBaseURL, cfg.MistralAPIKey, cfg.MistralModel)
		if err != nil {
			return nil, err
		}
		images = client
	default:
		return nil, fmt.Errorf("unsupported OCR provider %q", cfg.Provider)
	}
	return Router{Images: images, PDF: PDF{}}, nil
}

var (
	sectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ingredients:?\s*([^.]*)`),
		regexp.MustCompile(`(?i)contains:?\s*([^.]*)`),
		regexp.MustCompile(`(?i)composition:?\s*([^.]*)`),
	}
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// IngredientsSection isolates the ingredient list in label text. It looks
// for an "ingredients", "contains" or "composition" heading and takes the
// text up to the next period; failing that, the first paragraph with more
// than three commas; failing that, the whole text.
func IngredientsSection(text string) string {
	for _, pattern := range sectionPatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		if section := collapse(match[1]); section != "" {
			return section
		}
	}
	for _, paragraph := range paragraphBreak.Split(text, -1) {
		if strings.Count(paragraph, ",") > 3 {
			return collapse(paragraph)
		}
	}
	return strings.TrimSpace(text)
}

func collapse(value string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(value, " "))
}
