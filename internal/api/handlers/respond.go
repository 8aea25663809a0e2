package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/promptvault/promptvault/internal/category"
	"github.com/promptvault/promptvault/internal/prompt"
	"github.com/promptvault/promptvault/internal/provider"
	"github.com/promptvault/promptvault/internal/store"
	"github.com/promptvault/promptvault/internal/tag"
	"github.com/promptvault/promptvault/internal/transfer"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps service errors onto HTTP statuses: missing entities
// to 404, validation failures to 400, everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, prompt.ErrCategoryRequired),
		errors.Is(err, prompt.ErrInvalidCategory),
		errors.Is(err, prompt.ErrInvalidTagIDs),
		errors.Is(err, prompt.ErrInvalidDate),
		errors.Is(err, prompt.ErrNameRequired),
		errors.Is(err, tag.ErrDuplicateName),
		errors.Is(err, category.ErrDuplicateName),
		errors.Is(err, provider.ErrNoProvider),
		errors.Is(err, provider.ErrUnknownProvider),
		errors.Is(err, transfer.ErrUnsupportedFormat),
		errors.Is(err, transfer.ErrEmptyCSV):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
