// Package classifier implements the external classification tier on top of
// Google Gemini.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mintleaf/mintleaf-backend/internal/domain"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// GeminiClassifier asks Gemini to pick a category for a transaction
// description. It satisfies engine.Classifier.
type GeminiClassifier struct {
	client     *genai.Client
	model      string
	categories domain.CategoryRepository
}

// NewGeminiClassifier creates the classifier. The API key comes from
// configuration; category names come from the shared system taxonomy.
func NewGeminiClassifier(ctx context.Context, apiKey, model string, categories domain.CategoryRepository) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("classifier: create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClassifier{
		client:     client,
		model:      model,
		categories: categories,
	}, nil
}

// suggestionPayload is the strict JSON shape the model is asked to return.
type suggestionPayload struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Classify sends the description and amount to Gemini and maps the answer
// back onto the category taxonomy. Any transport or format problem is
// wrapped in domain.ErrClassificationUnavailable so the categorizer can
// absorb it.
func (g *GeminiClassifier) Classify(ctx context.Context, description string, amount decimal.Decimal, locale string) (*domain.CategorySuggestion, error) {
	visible, err := g.categories.GetVisible(ctx, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("%w: loading taxonomy: %v", domain.ErrClassificationUnavailable, err)
	}
	if len(visible) == 0 {
		return nil, fmt.Errorf("%w: empty taxonomy", domain.ErrClassificationUnavailable)
	}

	byName := make(map[string]*domain.Category, len(visible))
	var names []string
	for _, c := range visible {
		byName[strings.ToLower(c.Name)] = c
		names = append(names, c.Name)
	}

	prompt := buildPrompt(description, amount, locale, names)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClassificationUnavailable, err)
	}
	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("%w: empty model response", domain.ErrClassificationUnavailable)
	}

	var payload suggestionPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: unmarshal model response: %v", domain.ErrClassificationUnavailable, err)
	}

	category, ok := byName[strings.ToLower(strings.TrimSpace(payload.Category))]
	if !ok {
		// The model picked something outside the taxonomy; treat as no
		// suggestion rather than inventing a category.
		return &domain.CategorySuggestion{Confidence: 0}, nil
	}

	confidence := payload.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	id := category.ID
	return &domain.CategorySuggestion{CategoryID: &id, Confidence: confidence}, nil
}

func buildPrompt(description string, amount decimal.Decimal, locale string, names []string) string {
	var b strings.Builder
	b.WriteString("You are a personal-finance transaction classifier.\n\n")
	b.WriteString("Assign the transaction below to exactly one of these categories:\n")
	for _, name := range names {
		b.WriteString("- " + name + "\n")
	}
	b.WriteString("\nTransaction:\n")
	fmt.Fprintf(&b, "- description: %q\n", description)
	fmt.Fprintf(&b, "- amount: %s\n", amount.StringFixed(2))
	fmt.Fprintf(&b, "- locale: %s\n\n", locale)
	b.WriteString("Rules:\n")
	b.WriteString("- Category must be EXACTLY one of the names above.\n")
	b.WriteString("- If you are unsure, use \"" + domain.UncategorizedName + "\" with a low confidence.\n")
	b.WriteString("- Output STRICT JSON only, no Markdown, no code fences.\n")
	b.WriteString("- Shape: {\"category\": \"<name>\", \"confidence\": <0.0-1.0>}\n")
	return b.String()
}

// stripFences removes Markdown code fences in case the model ignores the
// formatting instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
