package service

import (
	"encoding/json"
	"strings"
)

// NVIDIAStreamChunkParser parses chunks carrying a separate reasoning_content
// delta, as DeepSeek models served by NVIDIA do.
type NVIDIAStreamChunkParser struct{}

// ParseChunk implements StreamChunkParser
func (p *NVIDIAStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	var raw struct {
		Choices []struct {
			Delta struct {
				Role             string  `json:"role,omitempty"`
				Content          string  `json:"content,omitempty"`
				ReasoningContent *string `json:"reasoning_content,omitempty"`
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
		if c.Delta.ReasoningContent != nil {
			chunk.ThinkingContent = *c.Delta.ReasoningContent
		}
		chunk.Done = c.FinishReason != nil && *c.FinishReason != ""
	}
	return chunk, nil
}

// IsNVIDIAProvider checks if the base URL is the NVIDIA API catalog
func IsNVIDIAProvider(baseURL string) bool {
	return strings.Contains(baseURL, "integrate.api.nvidia.com")
}
