package sentiment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// OpenAI classifies text with an OpenAI chat model.
type OpenAI struct {
	client *openai.Client
	model  openai.ChatModel
}

// NewOpenAI creates an OpenAI classifier. model defaults to gpt-4o-mini;
// baseURL may point at any OpenAI-compatible endpoint.
func NewOpenAI(apiKey, model, baseURL string, httpClient *http.Client) (*OpenAI, error) {
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
	client := openai.NewClient(opts...)

	m := openai.ChatModelGPT4oMini
	if model != "" {
		m = openai.ChatModel(model)
	}
	return &OpenAI{client: &client, model: m}, nil
}

func (c *OpenAI) Name() string { return "openai/" + string(c.model) }

// Classify asks the model for a JSON classification of text.
func (c *OpenAI) Classify(ctx context.Context, text string) (models.Classification, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(classifyPrompt),
			openai.UserMessage(userPrompt(text)),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return models.Classification{}, fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Classification{}, fmt.Errorf("openai: %w", ErrEmptyResponse)
	}
	return parseClassification(resp.Choices[0].Message.Content)
}
