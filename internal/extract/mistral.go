package extract

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type mistralDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type mistralRequest struct {
	Model    string          `json:"model"`
	Document mistralDocument `json:"document"`
}

type mistralPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type mistralResponse struct {
	Pages []mistralPage `json:"pages"`
}

type mistralError struct {
	Message any `json:"message"`
	Detail  any `json:"detail"`
}

// Mistral reads label images with the Mistral OCR API.
type Mistral struct {
	client *resty.Client
	model  string
}

// NewMistral returns a Mistral client. The API key is required.
func NewMistral(baseURL, apiKey, model string) (*Mistral, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("MISTRAL_API_KEY is required for the mistral OCR provider")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	if strings.TrimSpace(model) == "" {
		model = "mistral-ocr-latest"
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(60*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(3*time.Second).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Mistral{client: client, model: model}, nil
}

// ExtractText implements Extractor. Page markdown is joined with newlines.
func (m *Mistral) ExtractText(ctx context.Context, doc Document) (string, error) {
	mimeType := doc.MIMEType
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w: mistral reads images, got %s", ErrUnsupported, mimeType)
	}

	var (
		result  mistralResponse
		failure mistralError
	)
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(mistralRequest{
			Model: m.model,
			Document: mistralDocument{
				Type:     "image_url",
				ImageURL: "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(doc.Data),
			},
		}).
		SetResult(&result).
		SetError(&failure).
		Post("/ocr")
	if err != nil {
		return "", fmt.Errorf("call mistral ocr: %w", err)
	}
	if resp.IsError() {
		detail := failure.Message
		if detail == nil {
			detail = failure.Detail
		}
		return "", fmt.Errorf("mistral ocr returned %d: %v", resp.StatusCode(), detail)
	}

	var builder strings.Builder
	for _, page := range result.Pages {
		builder.WriteString(page.Markdown)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}
