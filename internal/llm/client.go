// Package llm is a thin client for OpenAI-compatible chat-completion
// endpoints, configured per provider. No retries and no client-side
// timeout; failures and upstream hangs propagate to the caller.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// defaultBaseURL is the dashscope compatible-mode endpoint, kept as
// the fallback for providers that leave api_url blank.
const defaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

// ErrEmptyResponse reports an upstream reply with no choices.
var ErrEmptyResponse = errors.New("empty response from provider")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest carries one upstream invocation. Nil sampling fields are
// omitted from the wire request so the provider's defaults apply.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

type ChatResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// StreamChunk is one delta from a streaming response. Done marks the
// final chunk; a non-nil Error means the stream failed mid-flight.
type StreamChunk struct {
	Content string
	Done    bool
	Error   error
}

type Client struct {
	client *openai.Client
}

// NewClient builds a client for one provider endpoint.
func NewClient(apiKey, apiURL string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = NormalizeBaseURL(apiURL)
	return &Client{client: openai.NewClientWithConfig(cfg)}
}

// NormalizeBaseURL maps a configured api_url to the client base URL.
// Older configs stored the full /chat/completions URL; that suffix is
// stripped since the client appends it. Blank falls back to the
// dashscope compatible-mode endpoint.
func NormalizeBaseURL(url string) string {
	if url == "" {
		return defaultBaseURL
	}
	url = strings.TrimRight(url, "/")
	url = strings.TrimSuffix(url, "/chat/completions")
	return url
}

func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := c.client.CreateChatCompletion(ctx, buildRequest(req, false))
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &ChatResponse{
		Content:      resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// ChatStream opens a streaming completion and feeds deltas into the
// returned channel, which closes after a Done chunk. Cancelling ctx
// tears down the upstream stream.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest) (<-chan StreamChunk, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, buildRequest(req, true))
	if err != nil {
		return nil, fmt.Errorf("chat stream: %w", err)
	}

	ch := make(chan StreamChunk, 64)
	go func() {
		defer close(ch)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				ch <- StreamChunk{Done: true}
				return
			}
			if err != nil {
				ch <- StreamChunk{Error: err, Done: true}
				return
			}
			if len(resp.Choices) > 0 && resp.Choices[0].Delta.Content != "" {
				ch <- StreamChunk{Content: resp.Choices[0].Delta.Content}
			}
		}
	}()

	return ch, nil
}

func buildRequest(req ChatRequest, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	oReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: msgs,
		Stream:   stream,
	}
	if req.Temperature != nil {
		oReq.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		oReq.TopP = float32(*req.TopP)
	}
	if req.MaxTokens != nil {
		oReq.MaxTokens = *req.MaxTokens
	}
	return oReq
}
