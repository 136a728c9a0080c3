package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload produces a Stripe-Signature header value the verifier
// accepts: HMAC-SHA256 over "<timestamp>.<payload>" with the endpoint
// secret.
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(eventType, intentID string, amount int64) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": "2022-11-15",
		"type": %q,
		"data": {
			"object": {
				"id": %q,
				"object": "payment_intent",
				"amount": %d,
				"status": "succeeded"
			}
		}
	}`, eventType, intentID, amount))
}

func newTestStripeService(t *testing.T) *StripeService {
	t.Helper()
	s, err := NewStripeService(StripeConfig{
		SecretKey:     "sk_test_key",
		WebhookSecret: testWebhookSecret,
	})
	if err != nil {
		t.Fatalf("NewStripeService: %v", err)
	}
	return s
}

func TestNewStripeServiceRequiresSecrets(t *testing.T) {
	if _, err := NewStripeService(StripeConfig{WebhookSecret: "whsec_x"}); err == nil {
		t.Error("expected error without secret key")
	}
	if _, err := NewStripeService(StripeConfig{SecretKey: "sk_test_x"}); err == nil {
		t.Error("expected error without webhook secret")
	}
}

func TestVerifyEventMapsTypes(t *testing.T) {
	s := newTestStripeService(t)

	cases := []struct {
		eventType string
		want      EventKind
	}{
		{"payment_intent.succeeded", EventSucceeded},
		{"payment_intent.payment_failed", EventFailed},
		{"payment_intent.canceled", EventCanceled},
	}
	for _, c := range cases {
		t.Run(c.eventType, func(t *testing.T) {
			payload := eventPayload(c.eventType, "pi_abc", 5000)
			evt, err := s.VerifyEvent(payload, signPayload(payload, testWebhookSecret, time.Now()))
			if err != nil {
				t.Fatalf("VerifyEvent: %v", err)
			}
			if evt.Kind != c.want {
				t.Errorf("kind = %s, want %s", evt.Kind, c.want)
			}
			if evt.PaymentIntentID != "pi_abc" {
				t.Errorf("payment intent id = %q, want pi_abc", evt.PaymentIntentID)
			}
			if evt.Amount != 5000 {
				t.Errorf("amount = %d, want 5000", evt.Amount)
			}
		})
	}
}

func TestVerifyEventIgnoresUntrackedTypes(t *testing.T) {
	s := newTestStripeService(t)

	payload := eventPayload("charge.refunded", "pi_abc", 5000)
	evt, err := s.VerifyEvent(payload, signPayload(payload, testWebhookSecret, time.Now()))
	if err != nil {
		t.Fatalf("VerifyEvent: %v", err)
	}
	if evt.Kind != EventIgnored {
		t.Errorf("kind = %s, want %s", evt.Kind, EventIgnored)
	}
}

func TestVerifyEventRejectsBadSignature(t *testing.T) {
	s := newTestStripeService(t)
	payload := eventPayload("payment_intent.succeeded", "pi_abc", 5000)

	if _, err := s.VerifyEvent(payload, signPayload(payload, "whsec_wrong_secret", time.Now())); err == nil {
		t.Error("expected error for signature from wrong secret")
	}
	if _, err := s.VerifyEvent(payload, "t=123,v1=deadbeef"); err == nil {
		t.Error("expected error for garbage signature")
	}
	if _, err := s.VerifyEvent(payload, ""); err == nil {
		t.Error("expected error for missing signature")
	}
}

func TestVerifyEventRejectsTamperedPayload(t *testing.T) {
	s := newTestStripeService(t)
	payload := eventPayload("payment_intent.succeeded", "pi_abc", 5000)
	sig := signPayload(payload, testWebhookSecret, time.Now())

	tampered := []byte(strings.Replace(string(payload), `"amount": 5000`, `"amount": 9000`, 1))
	if _, err := s.VerifyEvent(tampered, sig); err == nil {
		t.Error("expected error for payload modified after signing")
	}
}

func TestVerifyEventRejectsStaleTimestamp(t *testing.T) {
	s := newTestStripeService(t)
	payload := eventPayload("payment_intent.succeeded", "pi_abc", 5000)

	sig := signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))
	if _, err := s.VerifyEvent(payload, sig); err == nil {
		t.Error("expected error for hour-old signature")
	}
}

func TestVerifyEventRequiresIntentID(t *testing.T) {
	s := newTestStripeService(t)
	payload := eventPayload("payment_intent.succeeded", "", 5000)

	if _, err := s.VerifyEvent(payload, signPayload(payload, testWebhookSecret, time.Now())); err == nil {
		t.Error("expected error for event without a payment intent id")
	}
}
