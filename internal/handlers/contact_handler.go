package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"shapagatBack/internal/models"
	"shapagatBack/internal/services"
)

type ContactHandler struct {
	Service *services.ContactService
}

func (h *ContactHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var sub models.ContactSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(sub.Email) == "" || strings.TrimSpace(sub.Message) == "" {
		http.Error(w, "email and message are required", http.StatusBadRequest)
		return
	}
	created, err := h.Service.CreateSubmission(r.Context(), sub)
	if err != nil {
		http.Error(w, "Failed to create", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(created)
}

func (h *ContactHandler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.Service.GetSubmissions(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(submissions)
}

func (h *ContactHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	if err := h.Service.DeleteSubmission(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrSubmissionNotFound) {
			http.Error(w, "Submission not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
