// Package ai talks to the Ollama inference server.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrInference marks any failure to obtain a completion: the server being
// unreachable, a non-success status or a malformed body. Callers match it
// with errors.Is.
var ErrInference = errors.New("inference request failed")

// ModelInfo is one entry from the Ollama tags listing.
type ModelInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type OllamaClient struct {
	httpClient *http.Client
}

func NewOllamaClient() *OllamaClient {
	return &OllamaClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Generate requests a non-streamed completion for prompt from model. The
// caller's context carries any tighter deadline; there is no retry.
func (c *OllamaClient) Generate(ctx context.Context, apiURL, model, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":  model,
		"prompt": prompt,
		"stream": false,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal generate request failed: %w", err)
	}

	url := strings.TrimRight(apiURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build generate request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrInference, err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrInference, resp.StatusCode, string(raw))
	}

	var parsed struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: parse body: %v", ErrInference, err)
	}
	if parsed.Response == "" {
		return "", fmt.Errorf("%w: empty response field", ErrInference)
	}
	return parsed.Response, nil
}

// ListModels fetches the models installed on the Ollama server.
func (c *OllamaClient) ListModels(ctx context.Context, apiURL string) ([]ModelInfo, error) {
	url := strings.TrimRight(apiURL, "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrInference, err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrInference, resp.StatusCode, string(raw))
	}

	var parsed struct {
		Models []ModelInfo `json:"models"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse body: %v", ErrInference, err)
	}
	return parsed.Models, nil
}
