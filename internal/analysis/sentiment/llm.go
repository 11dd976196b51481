package sentiment

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// classifyPrompt is shared by the chat-model classifiers.
const classifyPrompt = `You are a financial sentiment classifier. Classify the sentiment of the news headline you are given toward the company it mentions.

Answer with JSON only, no other text:
{"label": "positive" | "negative" | "neutral", "score": confidence between 0 and 1}`

func userPrompt(text string) string {
	return "Headline: " + text
}

// cleanJSONResponse strips code fences and prose around a JSON object.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// parseClassification decodes a chat model's {"label","score"} reply.
func parseClassification(content string) (models.Classification, error) {
	content = cleanJSONResponse(content)
	if content == "" {
		return models.Classification{}, ErrEmptyResponse
	}

	var parsed struct {
		Label      string   `json:"label"`
		Score      *float64 `json:"score"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return models.Classification{}, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	label, ok := models.ParseLabel(parsed.Label)
	if !ok {
		return models.Classification{}, fmt.Errorf("%w: %q", ErrUnknownLabel, parsed.Label)
	}
	c := models.Classification{Label: label, Confidence: 1}
	switch {
	case parsed.Score != nil:
		c.Confidence = *parsed.Score
	case parsed.Confidence != nil:
		c.Confidence = *parsed.Confidence
	}
	return c, nil
}
