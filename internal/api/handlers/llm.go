package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/promptvault/promptvault/internal/history"
	"github.com/promptvault/promptvault/internal/llm"
	"github.com/promptvault/promptvault/internal/models"
	"github.com/promptvault/promptvault/internal/provider"
)

type LLMHandler struct {
	providers *provider.Service
	history   *history.Service
}

func NewLLMHandler(providers *provider.Service, hist *history.Service) *LLMHandler {
	return &LLMHandler{providers: providers, history: hist}
}

type testPromptRequest struct {
	Messages    []llm.Message `json:"messages"`
	Stream      bool          `json:"stream"`
	ProviderID  string        `json:"provider_id"`
	Model       string        `json:"model"`
	Temperature *float64      `json:"temperature"`
	TopP        *float64      `json:"top_p"`
	MaxTokens   *int          `json:"max_tokens"`

	// Optional linkage for the test-history log.
	PromptID  string `json:"prompt_id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
}

func (h *LLMHandler) TestPrompt(w http.ResponseWriter, r *http.Request) {
	var req testPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "messages required"})
		return
	}

	p, err := h.providers.Resolve(r.Context(), req.ProviderID)
	if err != nil {
		writeError(w, err)
		return
	}

	model := req.Model
	if model == "" {
		model = p.Model
	}
	chatReq := llm.ChatRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	}
	client := llm.NewClient(p.APIKey, p.APIURL)

	if req.Stream {
		streamSSE(w, r, client, chatReq)
		return
	}

	resp, err := client.Chat(r.Context(), chatReq)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	if req.PromptID != "" {
		h.recordTest(r, req, p, model, resp)
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": resp.Content})
}

type optimizePromptRequest struct {
	Prompt      string   `json:"prompt"`
	Stream      bool     `json:"stream"`
	ProviderID  string   `json:"provider_id"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	TopP        *float64 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
}

func (h *LLMHandler) OptimizePrompt(w http.ResponseWriter, r *http.Request) {
	var req optimizePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prompt required"})
		return
	}

	p, err := h.providers.Resolve(r.Context(), req.ProviderID)
	if err != nil {
		writeError(w, err)
		return
	}

	systemPrompt := p.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = llm.DefaultOptimizeSystemPrompt
	}
	model := req.Model
	if model == "" {
		model = p.Model
	}

	chatReq := llm.ChatRequest{
		Model: model,
		Messages: []llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
	}
	client := llm.NewClient(p.APIKey, p.APIURL)

	if req.Stream {
		streamSSE(w, r, client, chatReq)
		return
	}

	resp, err := client.Chat(r.Context(), chatReq)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"optimized_prompt": resp.Content})
}

// streamSSE forwards upstream deltas as "message" events carrying a
// {"text": ...} payload. Errors become one "error" event before the
// stream closes; the request context cancels the upstream call when
// the consumer disconnects.
func streamSSE(w http.ResponseWriter, r *http.Request, client *llm.Client, req llm.ChatRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming unsupported"})
		return
	}

	ch, err := client.ChatStream(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for chunk := range ch {
		if chunk.Error != nil {
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", chunk.Error.Error())
			flusher.Flush()
			return
		}
		if chunk.Content != "" {
			data, _ := json.Marshal(map[string]string{"text": chunk.Content})
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		}
		if chunk.Done {
			return
		}
	}
}

func (h *LLMHandler) recordTest(r *http.Request, req testPromptRequest, p *provider.Provider, model string, resp *llm.ChatResponse) {
	messages := make([]models.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = models.ChatMessage{Role: m.Role, Content: m.Content}
	}

	_, err := h.history.RecordTest(r.Context(), models.PromptTestHistory{
		PromptID:     req.PromptID,
		ProjectID:    req.ProjectID,
		Title:        req.Title,
		Messages:     messages,
		Response:     resp.Content,
		ProviderID:   p.ID,
		ProviderName: p.Name,
		Model:        model,
		Temperature:  req.Temperature,
		TopP:         req.TopP,
		MaxTokens:    req.MaxTokens,
		TokenCount:   resp.TotalTokens,
		Cost:         llm.Cost(model, p.InputPrice, p.OutputPrice, resp.InputTokens, resp.OutputTokens),
		InputPrice:   p.InputPrice,
		OutputPrice:  p.OutputPrice,
	})
	if err != nil {
		// The test itself succeeded; losing the log entry is not fatal.
		slog.Warn("record test history", "prompt_id", req.PromptID, "error", err)
	}
}
