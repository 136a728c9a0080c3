package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/stripe/stripe-go/v74"

	"shapagatBack/internal/models"
	"shapagatBack/internal/services"
)

type DonationHandler struct {
	Service *services.DonationService
}

// POST /donation/intent
// { "amount": 5000, "campaign_id": 1, "donor_id": 2, "message": "...", "is_anonymous": false }
func (h *DonationHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req models.DonationIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.CreateDonationIntent(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidAmount), errors.Is(err, models.ErrCampaignNotActive):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, models.ErrCampaignNotFound), errors.Is(err, models.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "create donation intent: "+err.Error(), paymentErrorStatus(err))
		}
		return
	}
	json.NewEncoder(w).Encode(resp)
}

// paymentErrorStatus propagates provider-side 4xx errors to the caller
// and treats everything else as an upstream failure.
func paymentErrorStatus(err error) int {
	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		if sErr.HTTPStatusCode >= 400 && sErr.HTTPStatusCode < 500 {
			return sErr.HTTPStatusCode
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *DonationHandler) GetDonationByID(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	donation, err := h.Service.GetDonationByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Donation not found", http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(donation)
}

func (h *DonationHandler) GetDonationsByCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, err := strconv.Atoi(r.URL.Query().Get(":campaign_id"))
	if err != nil {
		http.Error(w, "invalid campaign_id", http.StatusBadRequest)
		return
	}
	donations, err := h.Service.GetDonationsByCampaign(r.Context(), campaignID)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(donations)
}

func (h *DonationHandler) GetDonationsByDonor(w http.ResponseWriter, r *http.Request) {
	donorID, err := strconv.Atoi(r.URL.Query().Get(":donor_id"))
	if err != nil {
		http.Error(w, "invalid donor_id", http.StatusBadRequest)
		return
	}
	donations, err := h.Service.GetDonationsByDonor(r.Context(), donorID)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(donations)
}

// GET /donation?status=succeeded
func (h *DonationHandler) GetDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := h.Service.GetDonations(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(donations)
}

// DELETE /donation/:id — admin only. Deleting a succeeded donation also
// debits the campaign total inside the same transaction.
func (h *DonationHandler) DeleteDonation(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.URL.Query().Get(":id"))
	if err := h.Service.DeleteDonation(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrDonationNotFound) {
			http.Error(w, "Donation not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
