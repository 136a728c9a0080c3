package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"shapagatBack/internal/models"
	"shapagatBack/internal/services"
)

const testWebhookSecret = "whsec_test_secret"

// fakeLedger is a minimal in-memory DonationLedger for handler tests.
type fakeLedger struct {
	mu        sync.Mutex
	donations map[string]*models.Donation
	totals    map[int]int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		donations: make(map[string]*models.Donation),
		totals:    make(map[int]int64),
	}
}

func (f *fakeLedger) seedPending(id int, campaignID int, amount int64, pi string) {
	f.donations[pi] = &models.Donation{
		ID: id, CampaignID: campaignID, Amount: amount,
		Status: models.DonationPending, PaymentIntentID: pi,
	}
}

func (f *fakeLedger) CreateDonation(ctx context.Context, d models.Donation) (models.Donation, error) {
	return d, nil
}

func (f *fakeLedger) GetDonationByID(ctx context.Context, id int) (models.Donation, error) {
	return models.Donation{}, models.ErrDonationNotFound
}

func (f *fakeLedger) GetDonationByPaymentIntentID(ctx context.Context, pi string) (models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[pi]
	if !ok {
		return models.Donation{}, models.ErrDonationNotFound
	}
	return *d, nil
}

func (f *fakeLedger) SettleSuccess(ctx context.Context, pi string, at time.Time) (bool, models.Donation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[pi]
	if !ok || d.Status != models.DonationPending {
		return false, models.Donation{}, nil
	}
	d.Status = models.DonationSucceeded
	d.StatusChangedAt = &at
	f.totals[d.CampaignID] += d.Amount
	return true, *d, nil
}

func (f *fakeLedger) SettleFailure(ctx context.Context, pi string, status models.DonationStatus, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.donations[pi]
	if !ok || d.Status != models.DonationPending {
		return false, nil
	}
	d.Status = status
	d.StatusChangedAt = &at
	return true, nil
}

func (f *fakeLedger) DeleteDonation(ctx context.Context, id int) error { return nil }

func (f *fakeLedger) GetDonationsByCampaign(ctx context.Context, campaignID int) ([]models.Donation, error) {
	return nil, nil
}

func (f *fakeLedger) GetDonationsByDonor(ctx context.Context, donorID int) ([]models.Donation, error) {
	return nil, nil
}

func (f *fakeLedger) GetDonations(ctx context.Context, status string) ([]models.Donation, error) {
	return nil, nil
}

func signWebhookPayload(payload []byte, secret string) string {
	ts := fmt.Sprintf("%d", time.Now().Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func webhookPayload(eventType, intentID string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2022-11-15",
		"type": %q,
		"data": {"object": {"id": %q, "object": "payment_intent", "amount": %d}}
	}`, eventType, intentID, amount))
}

func newWebhookTestHandler(t *testing.T, ledger *fakeLedger) *WebhookHandler {
	t.Helper()
	payments, err := services.NewStripeService(services.StripeConfig{
		SecretKey:     "sk_test_key",
		WebhookSecret: testWebhookSecret,
	})
	if err != nil {
		t.Fatalf("NewStripeService: %v", err)
	}
	return &WebhookHandler{
		Payments: payments,
		Service:  &services.DonationService{Donations: ledger},
	}
}

func postWebhook(h *WebhookHandler, payload []byte, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload))
	if sig != "" {
		req.Header.Set("Stripe-Signature", sig)
	}
	rr := httptest.NewRecorder()
	h.HandleStripeEvent(rr, req)
	return rr
}

func decodeOutcome(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Received bool   `json:"received"`
		Outcome  string `json:"outcome"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Received {
		t.Error("expected received=true")
	}
	return body.Outcome
}

func TestHandleStripeEventSettlesDonation(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedPending(1, 7, 5000, "pi_live_1")
	h := newWebhookTestHandler(t, ledger)

	payload := webhookPayload("payment_intent.succeeded", "pi_live_1", 5000)
	rr := postWebhook(h, payload, signWebhookPayload(payload, testWebhookSecret))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %q", rr.Code, rr.Body.String())
	}
	if got := decodeOutcome(t, rr); got != string(services.OutcomeApplied) {
		t.Fatalf("outcome = %q, want %q", got, services.OutcomeApplied)
	}
	if ledger.totals[7] != 5000 {
		t.Fatalf("campaign total = %d, want 5000", ledger.totals[7])
	}
}

func TestHandleStripeEventRedelivery(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedPending(1, 7, 5000, "pi_live_1")
	h := newWebhookTestHandler(t, ledger)

	payload := webhookPayload("payment_intent.succeeded", "pi_live_1", 5000)
	sig := signWebhookPayload(payload, testWebhookSecret)

	if rr := postWebhook(h, payload, sig); rr.Code != http.StatusOK {
		t.Fatalf("first delivery status = %d", rr.Code)
	}
	rr := postWebhook(h, payload, sig)
	if rr.Code != http.StatusOK {
		t.Fatalf("redelivery status = %d, want 200", rr.Code)
	}
	if got := decodeOutcome(t, rr); got != string(services.OutcomeDuplicate) {
		t.Fatalf("redelivery outcome = %q, want %q", got, services.OutcomeDuplicate)
	}
	if ledger.totals[7] != 5000 {
		t.Fatalf("campaign total = %d after redelivery, want 5000", ledger.totals[7])
	}
}

func TestHandleStripeEventBadSignature(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedPending(1, 7, 5000, "pi_live_1")
	h := newWebhookTestHandler(t, ledger)

	payload := webhookPayload("payment_intent.succeeded", "pi_live_1", 5000)

	for name, sig := range map[string]string{
		"missing":      "",
		"garbage":      "t=1,v1=00",
		"wrong secret": signWebhookPayload(payload, "whsec_other"),
	} {
		rr := postWebhook(h, payload, sig)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s signature: status = %d, want 400", name, rr.Code)
		}
	}
	if ledger.totals[7] != 0 {
		t.Fatalf("rejected deliveries moved the total: %d", ledger.totals[7])
	}
	if ledger.donations["pi_live_1"].Status != models.DonationPending {
		t.Fatalf("rejected deliveries changed status to %s", ledger.donations["pi_live_1"].Status)
	}
}

func TestHandleStripeEventUnknownIntent(t *testing.T) {
	h := newWebhookTestHandler(t, newFakeLedger())

	payload := webhookPayload("payment_intent.succeeded", "pi_never_issued", 5000)
	rr := postWebhook(h, payload, signWebhookPayload(payload, testWebhookSecret))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 so the provider stops redelivering", rr.Code)
	}
	if got := decodeOutcome(t, rr); got != string(services.OutcomeUnknownIntent) {
		t.Fatalf("outcome = %q, want %q", got, services.OutcomeUnknownIntent)
	}
}

func TestHandleStripeEventUntrackedType(t *testing.T) {
	h := newWebhookTestHandler(t, newFakeLedger())

	payload := webhookPayload("customer.created", "cus_1", 0)
	rr := postWebhook(h, payload, signWebhookPayload(payload, testWebhookSecret))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := decodeOutcome(t, rr); got != string(services.OutcomeIgnored) {
		t.Fatalf("outcome = %q, want %q", got, services.OutcomeIgnored)
	}
}

func TestHandleStripeEventFailedPayment(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seedPending(1, 7, 5000, "pi_live_1")
	h := newWebhookTestHandler(t, ledger)

	payload := webhookPayload("payment_intent.payment_failed", "pi_live_1", 5000)
	rr := postWebhook(h, payload, signWebhookPayload(payload, testWebhookSecret))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if ledger.donations["pi_live_1"].Status != models.DonationFailed {
		t.Fatalf("status = %s, want failed", ledger.donations["pi_live_1"].Status)
	}
	if ledger.totals[7] != 0 {
		t.Fatalf("failed payment moved the total: %d", ledger.totals[7])
	}
}
