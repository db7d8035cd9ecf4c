package models

import (
	"testing"
	"time"
)

func TestSwapParticipant(t *testing.T) {
	swap := &SwapRequest{RequesterID: "alice", RequestedID: "bob"}

	if !swap.Participant("alice") || !swap.Participant("bob") {
		t.Error("both parties are participants")
	}
	if swap.Participant("mallory") {
		t.Error("outsider is not a participant")
	}
}

func TestSwapCounterpartID(t *testing.T) {
	swap := &SwapRequest{RequesterID: "alice", RequestedID: "bob"}

	if got := swap.CounterpartID("alice"); got != "bob" {
		t.Errorf("counterpart of alice = %q", got)
	}
	if got := swap.CounterpartID("bob"); got != "alice" {
		t.Errorf("counterpart of bob = %q", got)
	}
	if got := swap.CounterpartID("mallory"); got != "" {
		t.Errorf("counterpart of outsider = %q, want empty", got)
	}
}

func TestMessageExpired(t *testing.T) {
	now := time.Now()

	open := &AdminMessage{}
	if open.Expired(now) {
		t.Error("message without expiry never expires")
	}

	past := now.Add(-time.Hour)
	if !(&AdminMessage{ExpiresAt: &past}).Expired(now) {
		t.Error("past expiry should report expired")
	}

	future := now.Add(time.Hour)
	if (&AdminMessage{ExpiresAt: &future}).Expired(now) {
		t.Error("future expiry should not report expired")
	}
}

func TestValidAvailabilitySlot(t *testing.T) {
	for _, slot := range AvailabilitySlots {
		if !ValidAvailabilitySlot(slot) {
			t.Errorf("known slot %q rejected", slot)
		}
	}
	if ValidAvailabilitySlot("3am sharp") {
		t.Error("unknown slot accepted")
	}
}
