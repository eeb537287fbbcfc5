package extractor

import (
	"context"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"

	"github.com/spendsync/spendsync/pkg/database"
)

const DefaultModelName = "gemini-2.0-flash"

// GeminiModel calls the Gemini API with a structured response schema so the
// provider constrains generation to the expected JSON object.
type GeminiModel struct {
	client    *genai.Client
	modelName string
}

func NewGeminiModel(ctx context.Context, apiKey string, modelName string) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}

	if modelName == "" {
		modelName = DefaultModelName
	}

	return &GeminiModel{
		client:    client,
		modelName: modelName,
	}, nil
}

func (g *GeminiModel) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   transactionSchema(),
	})
	if err != nil {
		return "", errors.Wrap(err, "generate content")
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from model")
	}

	return text, nil
}

func transactionSchema() *genai.Schema {
	categories := make([]string, 0, len(database.Categories()))
	for _, c := range database.Categories() {
		categories = append(categories, string(c))
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"amount": {
				Type:        genai.TypeNumber,
				Description: "Transaction amount as a non-negative magnitude",
			},
			"merchant": {
				Type: genai.TypeString,
			},
			"date": {
				Type:        genai.TypeString,
				Description: "Transaction date in YYYY-MM-DD format",
			},
			"category": {
				Type: genai.TypeString,
				Enum: categories,
			},
			"type": {
				Type: genai.TypeString,
				Enum: []string{
					string(database.TransactionTypeDebit),
					string(database.TransactionTypeCredit),
				},
			},
			"description": {
				Type: genai.TypeString,
			},
		},
		Required: []string{"amount", "merchant", "date", "category", "type", "description"},
	}
}
