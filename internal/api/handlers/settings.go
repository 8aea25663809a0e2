package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/promptvault/promptvault/internal/provider"
	"github.com/promptvault/promptvault/internal/settings"
)

type SettingsHandler struct {
	svc       *settings.Service
	providers *provider.Service
}

func NewSettingsHandler(svc *settings.Service, providers *provider.Service) *SettingsHandler {
	return &SettingsHandler{svc: svc, providers: providers}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	values, err := h.svc.Map(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, values)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload map[string]string
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.SetAll(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *SettingsHandler) ListProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.providers.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, providers)
}

type providerListRequest struct {
	Providers []provider.Provider `json:"providers"`
}

func (h *SettingsHandler) SaveProviders(w http.ResponseWriter, r *http.Request) {
	var req providerListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.providers.Save(r.Context(), req.Providers); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
