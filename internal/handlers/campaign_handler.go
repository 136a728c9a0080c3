package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"shapagatBack/internal/models"
	"shapagatBack/internal/services"
)

type CampaignHandler struct {
	Service *services.CampaignService
}

func (h *CampaignHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var campaign models.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	if campaign.GoalAmount <= 0 {
		http.Error(w, "goal_amount must be positive", http.StatusBadRequest)
		return
	}
	created, err := h.Service.CreateCampaign(r.Context(), campaign)
	if err != nil {
		http.Error(w, "Failed to create", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(created)
}

// GET /campaign?status=active
func (h *CampaignHandler) GetCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.Service.GetCampaigns(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(campaigns)
}

func (h *CampaignHandler) GetCampaignByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	campaign, err := h.Service.GetCampaignByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Campaign not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(campaign)
}

// UpdateCampaign ignores any current_amount in the body; the running
// total moves only through the donation settle and delete paths.
func (h *CampaignHandler) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	var campaign models.Campaign
	if err := json.NewDecoder(r.Body).Decode(&campaign); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}
	campaign.ID = id
	updated, err := h.Service.UpdateCampaign(r.Context(), campaign)
	if err != nil {
		if errors.Is(err, models.ErrCampaignNotFound) {
			http.Error(w, "Campaign not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to update", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(updated)
}

func (h *CampaignHandler) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	if err := h.Service.DeleteCampaign(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrCampaignNotFound) {
			http.Error(w, "Campaign not found", http.StatusNotFound)
			return
		}
		if isForeignKeyConstraintError(err) {
			http.Error(w, "Campaign has donations and cannot be deleted", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
