package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client implements Provider against an OpenAI-compatible API. The default
// backend is OpenRouter, which proxies DALL-E 3 for images and GPT-4o for
// the prompt-enhancement sub-call; pointing BaseURL at api.openai.com works
// the same way.
type Client struct {
	config ProviderConfig
	client *http.Client
}

const (
	defaultBaseURL    = "https://openrouter.ai/api/v1"
	defaultImageModel = "openai/dall-e-3"
	defaultTextModel  = "openai/gpt-4o"

	// maxPromptTokens bounds the prompt-enhancement completion; the
	// transformation instruction is a short paragraph.
	maxPromptTokens = 200
)

// NewClient creates a provider client. Image generation and prompt
// enhancement share one HTTP client whose timeout is the only upstream
// deadline besides the request context.
func NewClient(cfg ProviderConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = defaultImageModel
	}
	if cfg.TextModel == "" {
		cfg.TextModel = defaultTextModel
	}
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: 90 * time.Second},
	}
}

func (c *Client) Name() string { return "openrouter" }

// GenerateImage requests one 1024x1024 image and returns its URL.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*ImageResult, error) {
	body := imageRequest{
		Model:          c.config.ImageModel,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard",
		ResponseFormat: "url",
	}

	respBody, genErr := c.post(ctx, "/images/generations", body)
	if genErr != nil {
		return nil, genErr
	}

	var result imageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &GenerationError{Category: CategoryUnknown, Message: fmt.Sprintf("decode image response: %v", err)}
	}
	if len(result.Data) == 0 || result.Data[0].URL == "" {
		return nil, &GenerationError{Category: CategoryUnknown, Message: "no image URL returned"}
	}

	return &ImageResult{URL: result.Data[0].URL}, nil
}

// GenerateText sends a chat completion request and returns the assistant's
// response text.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body := chatRequest{
		Model: c.config.TextModel,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: maxPromptTokens,
	}

	respBody, genErr := c.post(ctx, "/chat/completions", body)
	if genErr != nil {
		return "", genErr
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &GenerationError{Category: CategoryUnknown, Message: fmt.Sprintf("decode chat response: %v", err)}
	}
	if len(result.Choices) == 0 {
		return "", &GenerationError{Category: CategoryUnknown, Message: "no choices returned"}
	}

	return result.Choices[0].Message.Content, nil
}

// Ping lists models as a cheap connectivity and credential check.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("ping request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return classifyStatus(resp.StatusCode, body)
	}
	return nil
}

// post marshals body, performs the request, and returns the raw response
// bytes. Non-200 responses and transport failures come back as
// *GenerationError.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, *GenerationError) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &GenerationError{Category: CategoryUnknown, Message: fmt.Sprintf("marshal request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &GenerationError{Category: CategoryUnknown, Message: fmt.Sprintf("build request: %v", err)}
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, respBody)
	}
	return respBody, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	// OpenRouter attribution headers; harmless on other backends.
	if c.config.Referer != "" {
		req.Header.Set("HTTP-Referer", c.config.Referer)
	}
	if c.config.Title != "" {
		req.Header.Set("X-Title", c.config.Title)
	}
}

// --- OpenAI-compatible request/response types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type imageResponse struct {
	Data []imageDatum `json:"data"`
}

type imageDatum struct {
	URL string `json:"url"`
}
