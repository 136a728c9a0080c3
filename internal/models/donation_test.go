package models

import "testing"

func TestDonationStatusIsTerminal(t *testing.T) {
	cases := []struct {
		status   DonationStatus
		terminal bool
	}{
		{DonationPending, false},
		{DonationSucceeded, true},
		{DonationFailed, true},
		{DonationCanceled, true},
		{DonationStatus("unknown"), false},
	}
	for _, c := range cases {
		if got := c.status.IsTerminal(); got != c.terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", c.status, got, c.terminal)
		}
	}
}

func TestCanTransition(t *testing.T) {
	terminal := []DonationStatus{DonationSucceeded, DonationFailed, DonationCanceled}

	for _, to := range terminal {
		if !CanTransition(DonationPending, to) {
			t.Errorf("expected pending -> %s to be allowed", to)
		}
	}

	// No way out of a terminal state, whatever the target.
	for _, from := range terminal {
		for _, to := range append(terminal, DonationPending) {
			if CanTransition(from, to) {
				t.Errorf("expected %s -> %s to be rejected", from, to)
			}
		}
	}

	if CanTransition(DonationPending, DonationPending) {
		t.Error("expected pending -> pending to be rejected")
	}
}
