package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"shapagatBack/internal/services"
)

// Stripe payment_intent events stay well under this.
const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	Payments *services.StripeService
	Service  *services.DonationService
	ErrorLog *log.Logger
}

// HandleStripeEvent receives asynchronous payment outcomes from the
// provider. The body is verified as raw bytes before any parsing. A 2xx
// acknowledges the event (including no-ops); any 4xx/5xx makes the
// provider redeliver, so processing failures after verification must
// never be reported as success.
func (h *WebhookHandler) HandleStripeEvent(w http.ResponseWriter, r *http.Request) {
	if h.Payments == nil || h.Service == nil {
		http.Error(w, "webhooks not initialized", http.StatusInternalServerError)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	evt, err := h.Payments.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if h.ErrorLog != nil {
			h.ErrorLog.Printf("webhook rejected from %s: %v", r.RemoteAddr, err)
		}
		http.Error(w, "invalid webhook signature", http.StatusBadRequest)
		return
	}

	outcome, err := h.Service.HandleProviderEvent(r.Context(), evt)
	if err != nil {
		if h.ErrorLog != nil {
			h.ErrorLog.Printf("webhook processing failed for %s: %v", evt.PaymentIntentID, err)
		}
		http.Error(w, "event processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"received": true,
		"outcome":  outcome,
	})
}
