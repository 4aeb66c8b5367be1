package handlers

import (
	"net/http"
	"strings"

	"taskboard/internal/models"
)

// AddTask adds a one-off task, or a recurring one when freq is set.
func (h *Handlers) AddTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload struct {
		Description string `json:"description"`
		Freq        string `json:"freq"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if strings.TrimSpace(payload.Description) == "" {
		respondError(w, http.StatusBadRequest, "description required")
		return
	}

	var err error
	if payload.Freq == "" {
		err = h.store.Add(ctx, payload.Description)
	} else {
		freq, parseErr := models.ParseFrequency(payload.Freq)
		if parseErr != nil {
			respondError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		err = h.store.AddRecurring(ctx, payload.Description, freq)
	}
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse{OK: true})
}

// EditTask renames a task.
func (h *Handlers) EditTask(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OldDescription string `json:"oldDescription"`
		NewDescription string `json:"newDescription"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if strings.TrimSpace(payload.OldDescription) == "" || strings.TrimSpace(payload.NewDescription) == "" {
		respondError(w, http.StatusBadRequest, "oldDescription and newDescription required")
		return
	}

	found, err := h.store.Edit(r.Context(), payload.OldDescription, payload.NewDescription)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse{OK: found})
}

// CompleteTask marks a task done.
func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	description, ok := readDescription(w, r)
	if !ok {
		return
	}

	found, err := h.store.Complete(r.Context(), description)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse{OK: found})
}

// RemoveTask deletes a task.
func (h *Handlers) RemoveTask(w http.ResponseWriter, r *http.Request) {
	description, ok := readDescription(w, r)
	if !ok {
		return
	}

	found, err := h.store.Remove(r.Context(), description)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, okResponse{OK: found})
}

// readDescription decodes a {"description": ...} body. It writes the 400 response itself
// and returns false when the body is unusable.
func readDescription(w http.ResponseWriter, r *http.Request) (string, bool) {
	var payload struct {
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return "", false
	}

	if strings.TrimSpace(payload.Description) == "" {
		respondError(w, http.StatusBadRequest, "description required")
		return "", false
	}
	return payload.Description, true
}
