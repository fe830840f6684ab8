// Package cohere provides a minimal HTTP client for the Cohere classify and
// generate endpoints, the external capability behind the tutor's gateways.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.cohere.ai"

var (
	errEmptyClassification = errors.New("classify returned no classifications")
	errEmptyGeneration     = errors.New("generate returned no generations")
)

// Config holds client configuration.
type Config struct {
	APIKey         string
	BaseURL        string
	ClassifyModel  string
	GenerateModel  string
	RequestTimeout time.Duration
}

// DefaultConfig returns the production defaults. The models match what the
// front end was tuned against; change them via environment configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		ClassifyModel:  "embed-english-v3.0",
		GenerateModel:  "command",
		RequestTimeout: 10 * time.Second,
	}
}

// Client calls the Cohere HTTP API. A single attempt per call, bounded by
// the configured timeout; retry policy belongs to the caller.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Cohere client. Zero-valued config fields fall back to
// DefaultConfig values.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.ClassifyModel == "" {
		cfg.ClassifyModel = defaults.ClassifyModel
	}
	if cfg.GenerateModel == "" {
		cfg.GenerateModel = defaults.GenerateModel
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaults.RequestTimeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

// Example is a labeled exemplar supplied as in-context guidance to classify.
type Example struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

type classifyRequest struct {
	Model    string    `json:"model"`
	Inputs   []string  `json:"inputs"`
	Examples []Example `json:"examples"`
}

type classifyResponse struct {
	Classifications []struct {
		Prediction string `json:"prediction"`
	} `json:"classifications"`
}

// Classify returns the predicted label for input.
func (c *Client) Classify(ctx context.Context, input string, examples []Example) (string, error) {
	req := classifyRequest{
		Model:    c.cfg.ClassifyModel,
		Inputs:   []string{input},
		Examples: examples,
	}
	var resp classifyResponse
	if err := c.post(ctx, "/v1/classify", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Classifications) == 0 {
		return "", errEmptyClassification
	}
	return resp.Classifications[0].Prediction, nil
}

type generateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
}

// Generate returns generated text for prompt with bounded output length and
// a fixed sampling temperature.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	req := generateRequest{
		Model:       c.cfg.GenerateModel,
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	var resp generateResponse
	if err := c.post(ctx, "/v1/generate", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Generations) == 0 {
		return "", errEmptyGeneration
	}
	return resp.Generations[0].Text, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		// Read a bounded slice of the body for diagnostics.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("call %s: unexpected status %d: %s", path, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
