package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/promptvault/promptvault/internal/transfer"
)

// 20 MB cap on uploaded archives.
const maxImportSize = 20 << 20

type TransferHandler struct {
	svc *transfer.Service
}

func NewTransferHandler(svc *transfer.Service) *TransferHandler {
	return &TransferHandler{svc: svc}
}

type exportRequest struct {
	ProjectIDs []string `json:"project_ids"`
	Format     string   `json:"format"`
}

func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.ProjectIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "project_ids required"})
		return
	}
	if req.Format == "" {
		req.Format = transfer.FormatJSON
	}

	data, contentType, err := h.svc.Export(r.Context(), req.ProjectIDs, req.Format)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=prompts-export.%s", req.Format))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read file"})
		return
	}

	result, err := h.svc.Import(r.Context(), data, r.FormValue("format"), header.Filename)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
