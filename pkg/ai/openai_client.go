// pkg/ai/openai_client.go

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kisaan/pkg/apperr"
)

const systemPrompt = "You are an agricultural expert. Reply ONLY with valid JSON."

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

// NewOpenAI talks to any OpenAI-compatible /v1/chat/completions endpoint.
func NewOpenAI(endpoint, key, model string, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &openAI{
		endpoint: strings.TrimRight(endpoint, "/"),
		key:      key,
		model:    model,
		httpc:    &http.Client{Timeout: timeout},
	}
}

type chatReq struct {
	Model       string              `json:"model"`
	Messages    []map[string]string `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type chatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *openAI) GenerateText(ctx context.Context, prompt, apiKey string) (string, error) {
	key := c.key
	if apiKey != "" {
		key = apiKey
	}
	b, err := json.Marshal(chatReq{
		Model: c.model,
		Messages: []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", apperr.ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrGenerationFailed, err)
	}
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("%w: status %d: %s", apperr.ErrGenerationFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", apperr.ErrGenerationFailed, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", apperr.ErrGenerationFailed)
	}
	return out.Choices[0].Message.Content, nil
}
