package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/promptvault/promptvault/internal/history"
	"github.com/promptvault/promptvault/internal/prompt"
)

type PromptHandler struct {
	svc     *prompt.Service
	history *history.Service
}

func NewPromptHandler(svc *prompt.Service, hist *history.Service) *PromptHandler {
	return &PromptHandler{svc: svc, history: hist}
}

func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prompts, err := h.svc.List(r.Context(), chi.URLParam(r, "id"), prompt.ListQuery{
		Name:      q.Get("name"),
		Version:   q.Get("version"),
		Category:  q.Get("category"),
		Tag:       q.Get("tag"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req prompt.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name required"})
		return
	}

	p, err := h.svc.Create(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req prompt.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *PromptHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *PromptHandler) Diff(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Diff(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "targetId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PromptHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Rollback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// SDKPrompt serves the latest matching content for SDK consumers.
func (h *PromptHandler) SDKPrompt(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	content, err := h.svc.SDKContent(r.Context(), chi.URLParam(r, "id"), q.Get("name"), q.Get("version"), q.Get("tag"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

func (h *PromptHandler) History(w http.ResponseWriter, r *http.Request) {
	records, err := h.history.ListByPrompt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *PromptHandler) TestHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.history.ListTests(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
