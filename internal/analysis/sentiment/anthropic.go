package sentiment

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// Anthropic classifies text with a Claude model through the Messages API.
type Anthropic struct {
	client *anthropic.Client
	model  anthropic.Model
}

// defaultAnthropicModel is used when no model is configured.
const defaultAnthropicModel = "claude-haiku-4-5"

// NewAnthropic creates an Anthropic classifier.
func NewAnthropic(apiKey, model, baseURL string, httpClient *http.Client) (*Anthropic, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	client := anthropic.NewClient(opts...)

	if model == "" {
		model = defaultAnthropicModel
	}
	return &Anthropic{client: &client, model: anthropic.Model(model)}, nil
}

func (c *Anthropic) Name() string { return "anthropic/" + string(c.model) }

// Classify asks the model for a JSON classification of text.
func (c *Anthropic) Classify(ctx context.Context, text string) (models.Classification, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 64,
		System: []anthropic.TextBlockParam{
			{Text: classifyPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(text))),
		},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return models.Classification{}, fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return models.Classification{}, fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return parseClassification(sb.String())
}
