package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/seenimoa/sentitrack/pkg/models"
)

// HuggingFace classifies text with a hosted text-classification model,
// ProsusAI/finbert by default, through the Inference API.
type HuggingFace struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// HuggingFaceOption configures the Hugging Face classifier.
type HuggingFaceOption func(*HuggingFace)

// WithHuggingFaceBaseURL sets a custom inference endpoint base.
func WithHuggingFaceBaseURL(url string) HuggingFaceOption {
	return func(h *HuggingFace) { h.baseURL = strings.TrimRight(url, "/") }
}

// WithHuggingFaceModel sets the model ID.
func WithHuggingFaceModel(model string) HuggingFaceOption {
	return func(h *HuggingFace) { h.model = model }
}

// WithHuggingFaceHTTPClient sets a custom HTTP client.
func WithHuggingFaceHTTPClient(client *http.Client) HuggingFaceOption {
	return func(h *HuggingFace) { h.client = client }
}

// NewHuggingFace creates a Hugging Face classifier.
func NewHuggingFace(apiKey string, opts ...HuggingFaceOption) (*HuggingFace, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	h := &HuggingFace{
		apiKey:  apiKey,
		baseURL: "https://api-inference.huggingface.co",
		model:   "ProsusAI/finbert",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *HuggingFace) Name() string { return "huggingface/" + h.model }

type hfRequest struct {
	Inputs string `json:"inputs"`
}

type hfLabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type hfError struct {
	Error string `json:"error"`
}

// Classify posts text to the model and returns its highest-scoring class.
func (h *HuggingFace) Classify(ctx context.Context, text string) (models.Classification, error) {
	data, err := json.Marshal(hfRequest{Inputs: text})
	if err != nil {
		return models.Classification{}, fmt.Errorf("huggingface: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/models/"+h.model, bytes.NewReader(data))
	if err != nil {
		return models.Classification{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return models.Classification{}, fmt.Errorf("huggingface: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Classification{}, fmt.Errorf("huggingface: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e hfError
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return models.Classification{}, fmt.Errorf("huggingface: HTTP %d: %s", resp.StatusCode, e.Error)
		}
		return models.Classification{}, fmt.Errorf("huggingface: HTTP %d: %s", resp.StatusCode, string(body))
	}

	return parseHFClassification(body)
}

// parseHFClassification accepts both the nested [[...]] shape returned for
// a single input and a flat [...] list.
func parseHFClassification(body []byte) (models.Classification, error) {
	var nested [][]hfLabelScore
	var scores []hfLabelScore
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) > 0 {
			scores = nested[0]
		}
	} else if err := json.Unmarshal(body, &scores); err != nil {
		return models.Classification{}, fmt.Errorf("huggingface: decode response: %w", err)
	}
	if len(scores) == 0 {
		return models.Classification{}, ErrEmptyResponse
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	label, ok := models.ParseLabel(best.Label)
	if !ok {
		return models.Classification{}, fmt.Errorf("%w: %q", ErrUnknownLabel, best.Label)
	}
	return models.Classification{Label: label, Confidence: best.Score}, nil
}
