package service

import (
	"encoding/json"
	"strings"
)

// StreamChunkParser converts one SSE data payload into a StreamChunk
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

// OpenAIStreamChunkParser parses standard OpenAI-format streaming chunks
type OpenAIStreamChunkParser struct{}

// ParseChunk implements StreamChunkParser
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	var raw struct {
		Choices []struct {
			Delta struct {
				Role    string `json:"role,omitempty"`
				Content string `json:"content,omitempty"`
			} `json:"delta"`
			FinishReason *string `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	chunk := &StreamChunk{}
	if len(raw.Choices) > 0 {
		c := raw.Choices[0]
		chunk.Role = c.Delta.Role
		chunk.Content = c.Delta.Content
		chunk.Done = c.FinishReason != nil && *c.FinishReason != ""
	}
	return chunk, nil
}

// IsOpenAIProvider checks if the base URL is official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}

// chunkParserFor picks the stream format from the API base URL
func chunkParserFor(baseURL string) StreamChunkParser {
	if IsNVIDIAProvider(baseURL) {
		return &NVIDIAStreamChunkParser{}
	}
	return &OpenAIStreamChunkParser{}
}
