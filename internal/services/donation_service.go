package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"shapagatBack/internal/models"
)

// DonationLedger is the durable donation store. SettleSuccess and
// SettleFailure gate on the pending status, so redelivered provider
// events settle at most once.
type DonationLedger interface {
	CreateDonation(ctx context.Context, d models.Donation) (models.Donation, error)
	GetDonationByID(ctx context.Context, id int) (models.Donation, error)
	GetDonationByPaymentIntentID(ctx context.Context, paymentIntentID string) (models.Donation, error)
	SettleSuccess(ctx context.Context, paymentIntentID string, at time.Time) (bool, models.Donation, error)
	SettleFailure(ctx context.Context, paymentIntentID string, status models.DonationStatus, at time.Time) (bool, error)
	DeleteDonation(ctx context.Context, id int) error
	GetDonationsByCampaign(ctx context.Context, campaignID int) ([]models.Donation, error)
	GetDonationsByDonor(ctx context.Context, donorID int) ([]models.Donation, error)
	GetDonations(ctx context.Context, status string) ([]models.Donation, error)
}

type CampaignDirectory interface {
	GetCampaignByID(ctx context.Context, id int) (models.Campaign, error)
}

type DonorDirectory interface {
	GetUserByID(ctx context.Context, id int) (models.User, error)
}

// PaymentProvider opens provider-side payment attempts. Implemented by
// StripeService.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (IntentHandle, error)
}

// DonationService is the reconciliation core: it issues payment
// intents, applies verified webhook outcomes exactly once, and keeps
// campaign totals consistent with donation statuses.
type DonationService struct {
	Donations DonationLedger
	Campaigns CampaignDirectory
	Donors    DonorDirectory
	Payments  PaymentProvider

	// Feed, when set, receives every donation that settles as
	// succeeded (live dashboard ticker).
	Feed func(models.Donation)

	InfoLog  *log.Logger
	ErrorLog *log.Logger
}

func (s *DonationService) infof(format string, args ...any) {
	if s.InfoLog != nil {
		s.InfoLog.Printf(format, args...)
	}
}

func (s *DonationService) errorf(format string, args ...any) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}

// CreateDonationIntent validates the request, opens a provider payment
// intent and records a pending donation row keyed by the intent id.
// Validation failures reject before any state is created. If the row
// insert fails after the provider call, the orphaned intent is
// harmless: its webhook will find no donation and be dropped.
func (s *DonationService) CreateDonationIntent(ctx context.Context, req models.DonationIntentRequest) (models.DonationIntentResponse, error) {
	if req.Amount <= 0 {
		return models.DonationIntentResponse{}, models.ErrInvalidAmount
	}
	campaign, err := s.Campaigns.GetCampaignByID(ctx, req.CampaignID)
	if err != nil {
		return models.DonationIntentResponse{}, err
	}
	if !campaign.AcceptsDonations() {
		return models.DonationIntentResponse{}, models.ErrCampaignNotActive
	}
	if _, err := s.Donors.GetUserByID(ctx, req.DonorID); err != nil {
		return models.DonationIntentResponse{}, err
	}

	handle, err := s.Payments.CreatePaymentIntent(ctx, IntentRequest{
		Amount:      req.Amount,
		CampaignID:  req.CampaignID,
		DonorID:     req.DonorID,
		Description: fmt.Sprintf("Donation to %q", campaign.Title),
	})
	if err != nil {
		return models.DonationIntentResponse{}, err
	}

	donation, err := s.Donations.CreateDonation(ctx, models.Donation{
		CampaignID:      req.CampaignID,
		DonorID:         req.DonorID,
		Amount:          req.Amount,
		Message:         req.Message,
		IsAnonymous:     req.IsAnonymous,
		PaymentIntentID: handle.ID,
	})
	if err != nil {
		s.errorf("donation row insert failed, provider intent %s orphaned: %v", handle.ID, err)
		return models.DonationIntentResponse{}, err
	}

	return models.DonationIntentResponse{
		ClientSecret:    handle.ClientSecret,
		DonationID:      donation.ID,
		PaymentIntentID: handle.ID,
	}, nil
}

// EventOutcome describes what a verified webhook delivery did.
type EventOutcome string

const (
	// OutcomeApplied: the donation settled and, on success, the
	// campaign total moved. First delivery only.
	OutcomeApplied EventOutcome = "applied"
	// OutcomeDuplicate: the donation was already terminal; no state
	// changed. Redeliveries and conflicting late events land here.
	OutcomeDuplicate EventOutcome = "duplicate"
	// OutcomeUnknownIntent: no donation matches the payment intent.
	OutcomeUnknownIntent EventOutcome = "unknown_intent"
	// OutcomeIgnored: an event type the reconciler does not track.
	OutcomeIgnored EventOutcome = "ignored"
)

// HandleProviderEvent applies a verified payment outcome to the ledger.
// Transitions are monotonic: a terminal donation is never rewritten,
// whatever the incoming event claims. A non-nil error means the
// delivery must be retried by the provider; every nil-error outcome is
// safe to acknowledge.
func (s *DonationService) HandleProviderEvent(ctx context.Context, evt ProviderEvent) (EventOutcome, error) {
	if evt.Kind == EventIgnored {
		return OutcomeIgnored, nil
	}

	donation, err := s.Donations.GetDonationByPaymentIntentID(ctx, evt.PaymentIntentID)
	if errors.Is(err, models.ErrDonationNotFound) {
		s.infof("webhook for unknown payment intent %s dropped", evt.PaymentIntentID)
		return OutcomeUnknownIntent, nil
	}
	if err != nil {
		return "", err
	}
	if donation.Status.IsTerminal() {
		s.infof("webhook %s for payment intent %s ignored: donation %d already %s",
			evt.Kind, evt.PaymentIntentID, donation.ID, donation.Status)
		return OutcomeDuplicate, nil
	}

	now := time.Now().UTC()
	switch evt.Kind {
	case EventSucceeded:
		applied, settled, err := s.Donations.SettleSuccess(ctx, evt.PaymentIntentID, now)
		if err != nil {
			return "", fmt.Errorf("settle success for %s: %w", evt.PaymentIntentID, err)
		}
		if !applied {
			// Lost the race against a concurrent redelivery.
			return OutcomeDuplicate, nil
		}
		s.infof("donation %d succeeded, campaign %d credited %d", settled.ID, settled.CampaignID, settled.Amount)
		if s.Feed != nil {
			s.Feed(settled)
		}
		return OutcomeApplied, nil

	case EventFailed, EventCanceled:
		status := models.DonationFailed
		if evt.Kind == EventCanceled {
			status = models.DonationCanceled
		}
		applied, err := s.Donations.SettleFailure(ctx, evt.PaymentIntentID, status, now)
		if err != nil {
			return "", fmt.Errorf("settle %s for %s: %w", status, evt.PaymentIntentID, err)
		}
		if !applied {
			return OutcomeDuplicate, nil
		}
		s.infof("donation %d marked %s, no campaign delta", donation.ID, status)
		return OutcomeApplied, nil
	}

	return OutcomeIgnored, nil
}

// DeleteDonation hard-deletes a donation; the ledger compensates the
// campaign total when the deleted donation had been credited.
func (s *DonationService) DeleteDonation(ctx context.Context, id int) error {
	return s.Donations.DeleteDonation(ctx, id)
}

func (s *DonationService) GetDonationByID(ctx context.Context, id int) (models.Donation, error) {
	return s.Donations.GetDonationByID(ctx, id)
}

func (s *DonationService) GetDonationsByCampaign(ctx context.Context, campaignID int) ([]models.Donation, error) {
	return s.Donations.GetDonationsByCampaign(ctx, campaignID)
}

func (s *DonationService) GetDonationsByDonor(ctx context.Context, donorID int) ([]models.Donation, error) {
	return s.Donations.GetDonationsByDonor(ctx, donorID)
}

func (s *DonationService) GetDonations(ctx context.Context, status string) ([]models.Donation, error) {
	if status != "" && !models.DonationStatus(status).IsTerminal() && models.DonationStatus(status) != models.DonationPending {
		return nil, fmt.Errorf("unknown donation status %q", status)
	}
	return s.Donations.GetDonations(ctx, status)
}
