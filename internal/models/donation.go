package models

import (
	"time"
)

// DonationStatus is the lifecycle state of a single payment attempt.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationSucceeded DonationStatus = "succeeded"
	DonationFailed    DonationStatus = "failed"
	DonationCanceled  DonationStatus = "canceled"
)

// IsTerminal reports whether the status is final. Terminal statuses are
// never overwritten, not even by a conflicting provider event.
func (s DonationStatus) IsTerminal() bool {
	switch s {
	case DonationSucceeded, DonationFailed, DonationCanceled:
		return true
	}
	return false
}

// CanTransition reports whether a donation may move from one status to
// another. The only legal moves are pending -> terminal.
func CanTransition(from, to DonationStatus) bool {
	if from != DonationPending {
		return false
	}
	return to.IsTerminal()
}

// Donation is one attempted payment. Amount is stored in minor currency
// units and is immutable after creation; only the status pair changes.
type Donation struct {
	ID              int            `json:"id"`
	CampaignID      int            `json:"campaign_id"`
	DonorID         int            `json:"donor_id"`
	Amount          int64          `json:"amount"`
	Message         string         `json:"message,omitempty"`
	IsAnonymous     bool           `json:"is_anonymous"`
	Status          DonationStatus `json:"status"`
	PaymentIntentID string         `json:"payment_intent_id"`
	CreatedAt       time.Time      `json:"created_at"`
	StatusChangedAt *time.Time     `json:"status_changed_at,omitempty"`
}

// DonationIntentRequest is the donation-form payload.
type DonationIntentRequest struct {
	Amount      int64  `json:"amount"`
	CampaignID  int    `json:"campaign_id"`
	DonorID     int    `json:"donor_id"`
	Message     string `json:"message,omitempty"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// DonationIntentResponse is returned to the donation form; the client
// secret is consumed by the browser-side payment SDK.
type DonationIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	DonationID      int    `json:"donation_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}
