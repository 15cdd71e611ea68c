package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// VertexConfig selects the Gemini model served by Vertex AI.
type VertexConfig struct {
	ProjectID       string
	Location        string
	CredentialsFile string
	Model           string
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Vertex generates replies with Gemini on Vertex AI.
type Vertex struct {
	client *genai.Client
	model  contentGenerator
}

// NewVertex connects to Vertex AI. Credentials come from CredentialsFile
// when set and from the default Google credential chain otherwise.
func NewVertex(ctx context.Context, cfg VertexConfig) (*Vertex, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("assistant: GOOGLE_PROJECT_ID must not be empty")
	}
	location := cfg.Location
	if location == "" {
		location = "us-central1"
	}
	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	opts := []option.ClientOption{}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("assistant: create vertex client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemPrompt)}}
	model.SetTemperature(defaultTemperature)
	model.SetMaxOutputTokens(defaultMaxTokens)

	return &Vertex{client: client, model: model}, nil
}

// Generate implements Generator.
func (v *Vertex) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("assistant: call vertex: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("assistant: vertex returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	reply := strings.TrimSpace(b.String())
	if reply == "" {
		return "", errors.New("assistant: vertex returned no text")
	}
	return reply, nil
}

// Close releases the underlying client.
func (v *Vertex) Close() error {
	if v.client == nil {
		return nil
	}
	return v.client.Close()
}
