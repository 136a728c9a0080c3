package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string

	// Three-letter ISO code, e.g. "usd" or "kzt".
	Currency string

	Logger *slog.Logger
}

// StripeService wraps the provider API: issuing payment intents for the
// donation form and verifying webhook deliveries. Card data never
// touches this backend; the browser talks to the provider directly with
// the client secret.
type StripeService struct {
	api           *client.API
	webhookSecret string
	currency      string
	logger        *slog.Logger
}

func NewStripeService(cfg StripeConfig) (*StripeService, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" || strings.TrimSpace(cfg.WebhookSecret) == "" {
		return nil, fmt.Errorf("stripe: secret_key and webhook_secret are required")
	}
	currency := strings.ToLower(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "usd"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	api := &client.API{}
	api.Init(cfg.SecretKey, nil)

	s := &StripeService{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
		logger:        logger,
	}
	logger.Info("Stripe gateway initialized", "currency", currency)
	return s, nil
}

// IntentRequest carries everything the provider needs to open a payment
// attempt for one donation.
type IntentRequest struct {
	Amount      int64
	CampaignID  int
	DonorID     int
	Description string
}

// IntentHandle is the provider-side handle for an opened payment
// attempt. ID is the join key the webhook reconciler correlates on.
type IntentHandle struct {
	ID           string
	ClientSecret string
	Status       string
}

func (s *StripeService) CreatePaymentIntent(ctx context.Context, req IntentRequest) (IntentHandle, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.AddMetadata("campaign_id", strconv.Itoa(req.CampaignID))
	params.AddMetadata("donor_id", strconv.Itoa(req.DonorID))

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return IntentHandle{}, fmt.Errorf("create payment intent: %w", err)
	}
	s.logger.Debug("payment intent created", "payment_intent_id", pi.ID, "amount", req.Amount)
	return IntentHandle{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
	}, nil
}

// EventKind is the normalized payment outcome reported by a webhook.
type EventKind string

const (
	EventSucceeded EventKind = "succeeded"
	EventFailed    EventKind = "failed"
	EventCanceled  EventKind = "canceled"
	EventIgnored   EventKind = "ignored"
)

// ProviderEvent is a verified, normalized webhook event.
type ProviderEvent struct {
	Kind            EventKind
	PaymentIntentID string
	Amount          int64
}

// VerifyEvent checks the provider signature against the raw, unmodified
// payload and maps the event to a normalized outcome. Verification must
// run on the exact bytes received; a re-serialized body would fail.
func (s *StripeService) VerifyEvent(payload []byte, sigHeader string) (ProviderEvent, error) {
	event, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return ProviderEvent{}, fmt.Errorf("verify webhook: %w", err)
	}

	var kind EventKind
	switch event.Type {
	case "payment_intent.succeeded":
		kind = EventSucceeded
	case "payment_intent.payment_failed":
		kind = EventFailed
	case "payment_intent.canceled":
		kind = EventCanceled
	default:
		return ProviderEvent{Kind: EventIgnored}, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return ProviderEvent{}, fmt.Errorf("decode payment intent from event %s: %w", event.Type, err)
	}
	if strings.TrimSpace(pi.ID) == "" {
		return ProviderEvent{}, fmt.Errorf("event %s carries no payment intent id", event.Type)
	}
	return ProviderEvent{Kind: kind, PaymentIntentID: pi.ID, Amount: pi.Amount}, nil
}
