package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intentPayload struct {
	IntentType string   `json:"intent_type"`
	Colors     []string `json:"target_colors"`
	Confidence int      `json:"confidence"`
}

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    intentPayload
		wantErr bool
	}{
		{
			name:  "pure JSON",
			input: `{"intent_type": "product_search", "target_colors": ["beige"], "confidence": 85}`,
			want:  intentPayload{IntentType: "product_search", Colors: []string{"beige"}, Confidence: 85},
		},
		{
			name:  "leading byte order mark",
			input: "\ufeff{\"intent_type\": \"chat\", \"confidence\": 80}",
			want:  intentPayload{IntentType: "chat", Confidence: 80},
		},
		{
			name:  "markdown fence",
			input: "```json\n{\"intent_type\": \"chat\", \"confidence\": 90}\n```",
			want:  intentPayload{IntentType: "chat", Confidence: 90},
		},
		{
			name:  "surrounding prose with apostrophe",
			input: `Voici l'intention : {"intent_type": "faq", "confidence": 70} bonne journée`,
			want:  intentPayload{IntentType: "faq", Confidence: 70},
		},
		{
			name:  "reasoning block first",
			input: `<think>the user wants {a sofa}</think>{"intent_type": "product_search", "confidence": 60}`,
			want:  intentPayload{IntentType: "product_search", Confidence: 60},
		},
		{
			name:  "trailing comma",
			input: `{"intent_type": "chat", "target_colors": ["noir",], "confidence": 50,}`,
			want:  intentPayload{IntentType: "chat", Colors: []string{"noir"}, Confidence: 50},
		},
		{
			name:  "unquoted keys",
			input: `{intent_type: "style_advice", confidence: 40}`,
			want:  intentPayload{IntentType: "style_advice", Confidence: 40},
		},
		{
			name:  "single quotes",
			input: `{'intent_type': 'room_planning', 'confidence': 75}`,
			want:  intentPayload{IntentType: "room_planning", Confidence: 75},
		},
		{
			name:    "empty",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "no JSON",
			input:   "désolé, je ne peux pas répondre",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got intentPayload
			err := ParseAIJSON(tt.input, &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", `{"a": 1} tail`, `{"a": 1}`},
		{"nested", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"braces in string", `{"text": "canapé {angle}"}`, `{"text": "canapé {angle}"}`},
		{"unbalanced", `{"a": 1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBalanced(tt.input, '{', '}'))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
}
