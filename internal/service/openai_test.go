package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/config"
	"shopassist/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient(&config.OpenAIConfig{
		APIKey:    "sk-test",
		APIBase:   srv.URL,
		ChatModel: "test-model",
		Timeout:   5 * time.Second,
		Enabled:   true,
	}, logger.Nop())
}

func TestOpenAIClient_Classify(t *testing.T) {
	var got ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","model":"test-model","choices":[{"index":0,"message":{"role":"assistant","content":"{\"intent_type\":\"chat\"}"}}]}`)
	})

	raw, err := client.Classify(context.Background(), ClassifyRequest{
		System:      "sys",
		Messages:    []ChatMessage{{Role: "user", Content: "bonjour"}},
		Temperature: 0.1,
		MaxTokens:   50,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"intent_type":"chat"}`, raw)

	assert.Equal(t, "test-model", got.Model)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "bonjour", got.Messages[1].Content)
	assert.False(t, got.Stream)
}

func TestOpenAIClient_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	})

	_, err := client.Classify(context.Background(), ClassifyRequest{Messages: []ChatMessage{{Role: "user", Content: "x"}}})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "rate limited")
	assert.Equal(t, "status", fallbackReason(err))
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})
	_, err := client.Classify(context.Background(), ClassifyRequest{})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAIClient_Disabled(t *testing.T) {
	client := NewOpenAIClient(&config.OpenAIConfig{Enabled: false}, logger.Nop())
	assert.False(t, client.IsEnabled())
	_, err := client.Classify(context.Background(), ClassifyRequest{})
	assert.ErrorIs(t, err, ErrClassifierDisabled)
}

func TestOpenAIClient_CompleteStream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		assert.Equal(t, "composer-model", req.Model)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Voici \"}}]}\n\n")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, "data: not-json\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"un canapé.\"},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var deltas []string
	full, err := client.CompleteStream(context.Background(), "composer-model",
		[]ChatMessage{{Role: "user", Content: "canapé"}}, 0.5, 100,
		func(d string) error {
			deltas = append(deltas, d)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, []string{"Voici ", "un canapé."}, deltas)
	assert.Equal(t, "Voici un canapé.", full)
}

func TestOpenAIClient_CompleteStreamDropsReasoning(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"reasoning_content\":\"the shopper wants\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Voici un lit.\"},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})
	var logs bytes.Buffer
	client.chunkParser = &NVIDIAStreamChunkParser{}
	client.logger = zerolog.New(&logs).Level(zerolog.DebugLevel)

	var deltas []string
	full, err := client.CompleteStream(context.Background(), "m", nil, 0, 0, func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Voici un lit."}, deltas)
	assert.Equal(t, "Voici un lit.", full)
	assert.Contains(t, logs.String(), `"reasoning_bytes":17`)
}

func TestOpenAIClient_CompleteStreamEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: [DONE]\n\n")
	})
	_, err := client.CompleteStream(context.Background(), "m", nil, 0, 0, func(string) error { return nil })
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestStreamChunkParsers(t *testing.T) {
	data := []byte(`{"choices":[{"delta":{"content":"ok","reasoning_content":"thinking..."},"finish_reason":"stop"}]}`)

	nv, err := (&NVIDIAStreamChunkParser{}).ParseChunk(data)
	require.NoError(t, err)
	assert.Equal(t, "ok", nv.Content)
	assert.Equal(t, "thinking...", nv.ThinkingContent)
	assert.True(t, nv.Done)

	oa, err := (&OpenAIStreamChunkParser{}).ParseChunk(data)
	require.NoError(t, err)
	assert.Equal(t, "ok", oa.Content)
	assert.Empty(t, oa.ThinkingContent)

	_, err = (&OpenAIStreamChunkParser{}).ParseChunk([]byte("{"))
	assert.Error(t, err)
}

func TestChunkParserFor(t *testing.T) {
	assert.IsType(t, &NVIDIAStreamChunkParser{}, chunkParserFor("https://integrate.api.nvidia.com/v1"))
	assert.IsType(t, &OpenAIStreamChunkParser{}, chunkParserFor("https://api.openai.com/v1"))
	assert.True(t, IsOpenAIProvider("https://api.openai.com/v1"))
	assert.False(t, IsNVIDIAProvider("http://localhost:11434/v1"))
}
