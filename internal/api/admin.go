package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"genstudio/internal/instructions"

	"github.com/sirupsen/logrus"
)

// InstructionsHandler serves GET (current instructions, empty when none are
// stored) and PUT (replace them).
func (h *Handler) InstructionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ins, err := h.instructions.Load(r.Context())
		if err != nil && !errors.Is(err, instructions.ErrNotFound) {
			logrus.Errorf("Failed to load system instructions: %v", err)
			http.Error(w, "Failed to load system instructions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, ins)

	case http.MethodPut:
		uid, ok := userID(w, r)
		if !ok {
			return
		}
		var ins instructions.Instructions
		if err := json.NewDecoder(r.Body).Decode(&ins); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		saved, err := h.instructions.Save(r.Context(), ins, uid)
		if err != nil {
			http.Error(w, "Failed to save system instructions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, saved)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) InstructionsHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	revs, err := h.instructions.Revisions(r.Context(), limit)
	if err != nil {
		logrus.Errorf("Failed to load instruction revisions: %v", err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if revs == nil {
		revs = []instructions.Revision{}
	}
	writeJSON(w, http.StatusOK, revs)
}

type RestoreRequest struct {
	RevisionID string `json:"revision_id"`
}

func (h *Handler) RestoreInstructionsHandler(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req RestoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RevisionID == "" {
		http.Error(w, "revision_id is required", http.StatusBadRequest)
		return
	}

	ins, err := h.instructions.Restore(r.Context(), req.RevisionID, uid)
	if err != nil {
		if errors.Is(err, instructions.ErrRevisionNotFound) {
			http.Error(w, "Revision not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to restore system instructions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}
