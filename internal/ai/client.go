package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sunilav888-lab/RedHawk-Hunter/internal/model"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4.1-mini"
	DefaultTimeout = 90 * time.Second
)

// Client fala com um endpoint de chat completions compatível com OpenRouter.
type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey, modelName string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   modelName,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate produz o relatório Markdown via LLM ou devolve uma *Failure
// tipada. Qualquer falha aqui degrada o scan para "sem relatório AI",
// nunca para failed.
func (c *Client) Generate(ctx context.Context, appName string, mode model.Mode, findings []model.Finding) (string, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return "", &Failure{Kind: FailMissingCredential}
	}

	payload := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(appName, mode, findings)},
		},
		Temperature: 0.25,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &Failure{Kind: FailTransport, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", &Failure{Kind: FailTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Timeout também conta como falha de transporte.
		return "", &Failure{Kind: FailTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Failure{Kind: FailUpstream, Status: resp.StatusCode}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Failure{Kind: FailMalformedResponse, Err: err}
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", &Failure{Kind: FailMalformedResponse, Err: fmt.Errorf("resposta sem texto utilizável")}
	}

	return out.Choices[0].Message.Content, nil
}
