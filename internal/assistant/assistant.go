// Package assistant builds prompts about scanned products and sends them to
// a text generation backend.
package assistant

import (
	"context"
	"fmt"
	"strings"

	"ava/internal/config"
	"ava/internal/ingredient"
	applog "ava/internal/log"
)

// FallbackReply is returned to the user whenever generation fails.
const FallbackReply = "I'm sorry, I'm having trouble analyzing this information right now. Please try again in a moment."

// SystemPrompt frames every conversation.
const SystemPrompt = `You are Ava, a personal health assistant specializing in analyzing ingredients in food, beauty, and household products.

Your primary responsibilities:
1. Analyze product ingredients and their potential health implications
2. Provide personalized advice based on user's health profile (allergies, dietary preferences, skin conditions)
3. Explain ingredient properties, benefits, and risks in clear, accessible language
4. Recommend safer alternatives when appropriate

Guidelines for your responses:
- Be factual and evidence-based when discussing ingredient health impacts
- Personalize advice based on the user's specific health profile
- For ingredients with low health ratings (below 5/10), explain the specific concerns
- Highlight ingredients that match user's allergies or may trigger skin conditions
- When discussing beauty products, consider skin sensitivity and potential irritants
- For food products, focus on nutritional value, allergens, and dietary restrictions
- Maintain a helpful, informative tone without causing unnecessary alarm
- When recommending alternatives, suggest specific ingredient substitutes`

// Generator produces a reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProductContext describes the product a question is about.
type ProductContext struct {
	Name        string
	Category    string
	Ingredients []ingredient.Analyzed
}

// BuildContext describes the user's profile and, when given, the product and
// its ingredients as annotated for this user.
func BuildContext(profile ingredient.Profile, product *ProductContext) string {
	var b strings.Builder
	b.WriteString("User has the following preferences:\n")
	if len(profile.Allergies) > 0 {
		fmt.Fprintf(&b, "- Allergies: %s\n", strings.Join(profile.Allergies, ", "))
	} else {
		b.WriteString("- No known allergies\n")
	}
	if len(profile.DietaryPreferences) > 0 {
		fmt.Fprintf(&b, "- Dietary preferences: %s\n", strings.Join(profile.DietaryPreferences, ", "))
	}
	if len(profile.SkinConditions) > 0 {
		fmt.Fprintf(&b, "- Skin conditions: %s\n", strings.Join(profile.SkinConditions, ", "))
	}

	if product == nil {
		return b.String()
	}
	fmt.Fprintf(&b, "\nUser scanned a %s product called %q containing the following ingredients:\n", product.Category, product.Name)
	for _, ing := range product.Ingredients {
		fmt.Fprintf(&b, "- %s (health rating: %d/10): %s", ing.CanonicalName, ing.HealthRating, ing.Description)
		if ing.IsRisky {
			details := make([]string, 0, len(ing.Findings))
			for _, finding := range ing.Findings {
				details = append(details, finding.Detail)
			}
			fmt.Fprintf(&b, " [flagged for this user: %s]", strings.Join(details, "; "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Prompt wraps a user message in its context.
func Prompt(context, message string) string {
	return fmt.Sprintf("%s\n\nUser asks: %q\n\nProvide a helpful, accurate response about the health implications of this product based on the user's preferences and the ingredients.", context, message)
}

// Reply asks gen for a response and falls back to FallbackReply when the
// generator fails or returns nothing.
func Reply(ctx context.Context, gen Generator, prompt string) string {
	if gen == nil {
		return FallbackReply
	}
	reply, err := gen.Generate(ctx, prompt)
	if err != nil {
		applog.Error(ctx, "assistant generation failed", "error", err)
		return FallbackReply
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		applog.Error(ctx, "assistant returned an empty reply")
		return FallbackReply
	}
	return reply
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "mock":
		return Mock{}, nil
	case "openai":
		client, err := NewClient(Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case "vertex", "google", "gemini":
		vertex, err := NewVertex(ctx, VertexConfig{
			ProjectID:       cfg.GoogleProjectID,
			Location:        cfg.GoogleLocation,
			CredentialsFile: cfg.GoogleCredentialsFile,
			Model:           cfg.VertexModel,
		})
		if err != nil {
			return nil, err
		}
		return vertex, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
