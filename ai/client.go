// Package ai provides a client for an OpenAI-compatible AI gateway,
// covering embeddings and chat completions.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

var (
	ErrEmbeddingFailed  = errors.New("failed to generate embedding")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrPaymentRequired  = errors.New("ai service requires payment")
	ErrGenerationFailed = errors.New("failed to get response from ai")
)

const (
	DefaultBaseURL        = "https://ai.gateway.lovable.dev/v1"
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultChatModel      = "google/gemini-3-flash-preview"
	DefaultDimensions     = 768
	DefaultMaxInputChars  = 8000
	DefaultTimeoutSecs    = 60
)

type Config struct {
	BaseURL        string `yaml:"baseURL"`
	APIKeyEnv      string `yaml:"apiKeyEnv"`
	EmbeddingModel string `yaml:"embeddingModel"`
	ChatModel      string `yaml:"chatModel"`
	Dimensions     int    `yaml:"dimensions"`
	MaxInputChars  int    `yaml:"maxInputChars"`
	TimeoutSecs    int    `yaml:"timeoutSecs"`
}

// Client is the boundary to the external embedding and chat
// completion services.
type Client interface {
	// Embed turns text into a fixed-length vector. Input longer than
	// the configured cap is prefix-truncated before submission.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Complete produces an answer from a single system+user message
	// pair. Rate-limit and payment conditions surface as
	// ErrRateLimited and ErrPaymentRequired.
	Complete(ctx context.Context, system, user string) (string, error)
}

func NewGatewayClient(cfg Config) (Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "AI_GATEWAY_API_KEY"
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = DefaultMaxInputChars
	}
	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = DefaultTimeoutSecs
	}

	apiKey := os.Getenv(cfg.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}

	return &gatewayClient{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
	}, nil
}

type gatewayClient struct {
	cfg    Config
	apiKey string
	client *http.Client
}

type embeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (c *gatewayClient) Embed(ctx context.Context, text string) ([]float32, error) {
	if runes := []rune(text); len(runes) > c.cfg.MaxInputChars {
		text = string(runes[:c.cfg.MaxInputChars])
	}

	reqBody := embeddingRequest{
		Model:      c.cfg.EmbeddingModel,
		Input:      text,
		Dimensions: c.cfg.Dimensions,
	}

	body, status, err := c.post(ctx, "/embeddings", reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrEmbeddingFailed, status)
	}

	var resp embeddingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrEmbeddingFailed)
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != c.cfg.Dimensions {
		return nil, fmt.Errorf("%w: expected %d dimensions, got %d",
			ErrEmbeddingFailed, c.cfg.Dimensions, len(embedding))
	}

	return embedding, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *gatewayClient) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: c.cfg.ChatModel,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	body, status, err := c.post(ctx, "/chat/completions", reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	switch status {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	case http.StatusPaymentRequired:
		return "", ErrPaymentRequired
	default:
		return "", fmt.Errorf("%w: status %d", ErrGenerationFailed, status)
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no answer received", ErrGenerationFailed)
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *gatewayClient) post(ctx context.Context, path string, reqBody any) ([]byte, int, error) {
	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}
