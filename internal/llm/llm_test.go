package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"blank falls back to dashscope", "", "https://dashscope.aliyuncs.com/compatible-mode/v1"},
		{"plain base kept", "https://api.openai.com/v1", "https://api.openai.com/v1"},
		{"trailing slash stripped", "https://api.openai.com/v1/", "https://api.openai.com/v1"},
		{"legacy full url stripped", "https://example.com/v1/chat/completions", "https://example.com/v1"},
		{"legacy full url with slash", "https://example.com/v1/chat/completions/", "https://example.com/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.in))
		})
	}
}

func TestCostUsesConfiguredPrices(t *testing.T) {
	// 2000 input at $0.5/1K plus 1000 output at $1/1K.
	got := Cost("anything", 0.5, 1.0, 2000, 1000)
	assert.InDelta(t, 2.0, got, 1e-9)
}

func TestCostFallsBackToModelTable(t *testing.T) {
	got := Cost("gpt-4o", 0, 0, 1000, 1000)
	assert.InDelta(t, 0.005+0.015, got, 1e-9)
}

func TestCostUnknownModelIsFree(t *testing.T) {
	assert.Zero(t, Cost("mystery-model", 0, 0, 5000, 5000))
}

func TestBuildRequestOmitsNilSampling(t *testing.T) {
	req := buildRequest(ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: "user", Content: "hi"}},
	}, false)

	assert.Zero(t, req.Temperature)
	assert.Zero(t, req.TopP)
	assert.Zero(t, req.MaxTokens)
	assert.False(t, req.Stream)

	temp := 0.7
	topP := 0.9
	maxTokens := 256
	req = buildRequest(ChatRequest{
		Model:       "gpt-4o-mini",
		Messages:    []Message{{Role: "user", Content: "hi"}},
		Temperature: &temp,
		TopP:        &topP,
		MaxTokens:   &maxTokens,
	}, true)

	assert.InDelta(t, 0.7, float64(req.Temperature), 1e-6)
	assert.InDelta(t, 0.9, float64(req.TopP), 1e-6)
	assert.Equal(t, 256, req.MaxTokens)
	assert.True(t, req.Stream)
}
