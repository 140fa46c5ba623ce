package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"shopassist/internal/config"
	"shopassist/internal/utils"
)

// OpenAIClient handles OpenAI-compatible chat completion APIs
type OpenAIClient struct {
	config      *config.OpenAIConfig
	httpClient  *http.Client
	chunkParser StreamChunkParser
	extraBody   map[string]any
	logger      zerolog.Logger
}

var _ TextClassifier = (*OpenAIClient)(nil)

// NewOpenAIClient creates a client and picks the stream format from the base URL
func NewOpenAIClient(cfg *config.OpenAIConfig, logger zerolog.Logger) *OpenAIClient {
	c := &OpenAIClient{
		config:      cfg,
		chunkParser: chunkParserFor(cfg.APIBase),
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.With().Str("component", "openai").Logger(),
	}

	if cfg.ChatExtraBody != "" {
		if err := json.Unmarshal([]byte(cfg.ChatExtraBody), &c.extraBody); err != nil {
			c.logger.Warn().Err(err).Msg("ignoring invalid OPENAI_CHAT_EXTRA_BODY")
			c.extraBody = nil
		}
	}

	c.logger.Debug().
		Str("api_base", cfg.APIBase).
		Bool("reasoning_stream", IsNVIDIAProvider(cfg.APIBase)).
		Msg("language model client configured")
	return c
}

// IsEnabled returns whether the client is configured and ready
func (c *OpenAIClient) IsEnabled() bool {
	return c != nil && c.config.Enabled
}

// ChatCompletionRequest represents a chat completion request
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	ExtraBody      map[string]any  `json:"extra_body,omitempty"`
}

// ChatMessage represents a single message in the conversation
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat specifies the format of the response
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" or "text"
}

// ChatCompletionResponse represents the API response
type ChatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      ChatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// StreamCallback is called for each chunk in streaming mode
type StreamCallback func(chunk *StreamChunk) error

// StatusError is a non-2xx answer from the API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// ChatCompletion performs a chat completion request
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	resp, err := c.do(ctx, req, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug().
		Str("model", result.Model).
		Int("total_tokens", result.Usage.TotalTokens).
		Msg("chat completion done")
	return &result, nil
}

// ChatCompletionStream performs a streaming chat completion request
func (c *OpenAIClient) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest, callback StreamCallback) error {
	resp, err := c.do(ctx, req, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read stream: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		line = bytes.TrimSpace(line)
		if data, ok := bytes.CutPrefix(line, []byte("data:")); ok {
			data = bytes.TrimSpace(data)
			if bytes.Equal(data, []byte("[DONE]")) {
				return nil
			}

			chunk, perr := c.chunkParser.ParseChunk(data)
			if perr != nil {
				c.logger.Warn().Err(perr).Msg("skipping unparseable stream chunk")
			} else if cerr := callback(chunk); cerr != nil {
				return fmt.Errorf("callback error: %w", cerr)
			}
		}

		if eof {
			return nil
		}
	}
}

// do sends the request and returns a 200 response whose body the caller closes
func (c *OpenAIClient) do(ctx context.Context, req ChatCompletionRequest, stream bool) (*http.Response, error) {
	if !c.IsEnabled() {
		return nil, ErrClassifierDisabled
	}

	if req.Model == "" {
		req.Model = c.config.ChatModel
	}
	if req.ExtraBody == nil && c.extraBody != nil {
		req.ExtraBody = c.extraBody
	}
	req.Stream = stream

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.config.APIBase + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: utils.Truncate(string(body), 300)}
	}
	return resp, nil
}

// Classify implements TextClassifier with a JSON-object response format
func (c *OpenAIClient) Classify(ctx context.Context, req ClassifyRequest) (string, error) {
	messages := make([]ChatMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	resp, err := c.ChatCompletion(ctx, ChatCompletionRequest{
		Model:          c.config.ChatModel,
		Messages:       messages,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// Complete returns free text for the given conversation
func (c *OpenAIClient) Complete(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	resp, err := c.ChatCompletion(ctx, ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// CompleteStream streams free text, forwarding content deltas only
func (c *OpenAIClient) CompleteStream(ctx context.Context, model string, messages []ChatMessage, temperature float64, maxTokens int, onDelta func(string) error) (string, error) {
	var (
		full      strings.Builder
		reasoning int
	)
	err := c.ChatCompletionStream(ctx, ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, func(chunk *StreamChunk) error {
		// reasoning tokens never reach the shopper
		reasoning += len(chunk.ThinkingContent)
		if chunk.Content == "" {
			return nil
		}
		full.WriteString(chunk.Content)
		return onDelta(chunk.Content)
	})
	if reasoning > 0 {
		c.logger.Debug().Str("model", model).Int("reasoning_bytes", reasoning).Msg("dropped streamed reasoning")
	}
	if err != nil {
		return "", fmt.Errorf("streaming error: %w", err)
	}
	if strings.TrimSpace(full.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(full.String()), nil
}
