package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const ProviderGenAI = "genai"

// GenAIProvider calls the internal generation gateway at POST /api/ai/generate.
type GenAIProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGenAIProvider(baseURL, apiKey string, client *http.Client) *GenAIProvider {
	if client == nil {
		client = &http.Client{}
	}
	return &GenAIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
	}
}

type genAIRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type genAIResponse struct {
	Text string `json:"text"`
}

func (p *GenAIProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(genAIRequest{Prompt: prompt, MaxTokens: maxTokens})
	if err != nil {
		return "", fmt.Errorf("genai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/ai/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("genai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("genai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Provider: ProviderGenAI, Code: resp.StatusCode}
	}

	var out genAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("genai: decode response: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("genai: %w", ErrEmptyResponse)
	}
	return strings.TrimSpace(out.Text), nil
}
