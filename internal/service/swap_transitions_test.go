package service

import (
	"errors"
	"strings"
	"testing"

	"skillswap/api/internal/models"
)

func TestTransitionAllowed(t *testing.T) {
	cases := []struct {
		from   models.SwapStatus
		action SwapAction
		want   bool
	}{
		{models.SwapStatusPending, ActionAccept, true},
		{models.SwapStatusPending, ActionReject, true},
		{models.SwapStatusPending, ActionCancel, true},
		{models.SwapStatusPending, ActionComplete, false},
		{models.SwapStatusAccepted, ActionAccept, false},
		{models.SwapStatusAccepted, ActionCancel, true},
		{models.SwapStatusAccepted, ActionComplete, true},
		{models.SwapStatusRejected, ActionAccept, false},
		{models.SwapStatusRejected, ActionCancel, false},
		{models.SwapStatusCancelled, ActionComplete, false},
		{models.SwapStatusCompleted, ActionCancel, false},
		{models.SwapStatusCompleted, ActionComplete, false},
	}

	for _, tc := range cases {
		if got := TransitionAllowed(tc.from, tc.action); got != tc.want {
			t.Errorf("TransitionAllowed(%s, %s) = %v, want %v", tc.from, tc.action, got, tc.want)
		}
	}

	if TransitionAllowed(models.SwapStatusPending, SwapAction("explode")) {
		t.Error("unknown action must never be allowed")
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []models.SwapStatus{models.SwapStatusRejected, models.SwapStatusCompleted, models.SwapStatusCancelled}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
		for _, action := range []SwapAction{ActionAccept, ActionReject, ActionCancel, ActionComplete} {
			if TransitionAllowed(s, action) {
				t.Errorf("terminal status %s must not allow %s", s, action)
			}
		}
	}
	if models.SwapStatusPending.Terminal() || models.SwapStatusAccepted.Terminal() {
		t.Error("pending and accepted are not terminal")
	}
}

func TestActorAllowed(t *testing.T) {
	swap := &models.SwapRequest{RequesterID: "alice", RequestedID: "bob"}

	if err := actorAllowed(swap, "bob", ActionAccept); err != nil {
		t.Errorf("recipient must be able to accept: %v", err)
	}
	if err := actorAllowed(swap, "alice", ActionAccept); !errors.Is(err, ErrForbidden) {
		t.Errorf("requester accepting own request: got %v, want ErrForbidden", err)
	}
	if err := actorAllowed(swap, "alice", ActionReject); !errors.Is(err, ErrForbidden) {
		t.Errorf("requester rejecting own request: got %v, want ErrForbidden", err)
	}

	if err := actorAllowed(swap, "alice", ActionCancel); err != nil {
		t.Errorf("requester must be able to cancel: %v", err)
	}
	if err := actorAllowed(swap, "bob", ActionCancel); !errors.Is(err, ErrForbidden) {
		t.Errorf("recipient cancelling: got %v, want ErrForbidden", err)
	}

	for _, caller := range []string{"alice", "bob"} {
		if err := actorAllowed(swap, caller, ActionComplete); err != nil {
			t.Errorf("participant %s must be able to complete: %v", caller, err)
		}
	}
	if err := actorAllowed(swap, "mallory", ActionComplete); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider completing: got %v, want ErrForbidden", err)
	}

	if err := actorAllowed(swap, "bob", SwapAction("explode")); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown action: got %v, want ErrValidation", err)
	}
}

func TestValidateCreate(t *testing.T) {
	valid := CreateSwapInput{
		RequestedUserID: "bob",
		SkillOffered:    models.SkillSnapshot{Name: "Guitar"},
		SkillWanted:     models.SkillSnapshot{Name: "Spanish"},
		Message:         "trade lessons?",
	}
	if err := validateCreate("alice", valid); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	broken := []CreateSwapInput{
		{SkillOffered: valid.SkillOffered, SkillWanted: valid.SkillWanted, Message: valid.Message},
		{RequestedUserID: "bob", SkillWanted: valid.SkillWanted, Message: valid.Message},
		{RequestedUserID: "bob", SkillOffered: valid.SkillOffered, Message: valid.Message},
		{RequestedUserID: "bob", SkillOffered: valid.SkillOffered, SkillWanted: valid.SkillWanted},
		{RequestedUserID: "bob", SkillOffered: valid.SkillOffered, SkillWanted: valid.SkillWanted, Message: "  "},
	}
	for i, input := range broken {
		if err := validateCreate("alice", input); !errors.Is(err, ErrValidation) {
			t.Errorf("case %d: got %v, want ErrValidation", i, err)
		}
	}

	long := valid
	long.Message = strings.Repeat("x", maxMessageLen+1)
	if err := validateCreate("alice", long); !errors.Is(err, ErrValidation) {
		t.Errorf("overlong message: got %v, want ErrValidation", err)
	}

	exact := valid
	exact.Message = strings.Repeat("x", maxMessageLen)
	if err := validateCreate("alice", exact); err != nil {
		t.Errorf("message at the limit rejected: %v", err)
	}
}

func TestValidateCreateSelfRequest(t *testing.T) {
	input := CreateSwapInput{
		RequestedUserID: "alice",
		SkillOffered:    models.SkillSnapshot{Name: "Guitar"},
		SkillWanted:     models.SkillSnapshot{Name: "Spanish"},
		Message:         "trade lessons?",
	}
	if err := validateCreate("alice", input); !errors.Is(err, ErrSelfRequest) {
		t.Fatalf("caller targeting themselves: got %v, want ErrSelfRequest", err)
	}
}

func TestValidateRating(t *testing.T) {
	for r := 1.0; r <= 5; r++ {
		got, err := validateRating(r, "great session")
		if err != nil {
			t.Fatalf("rating %v rejected: %v", r, err)
		}
		if got != int(r) {
			t.Fatalf("rating %v: got %d", r, got)
		}
	}

	for _, r := range []float64{0, 6, -1, 3.5, 4.9999} {
		if _, err := validateRating(r, ""); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %v: got %v, want ErrInvalidRating", r, err)
		}
	}

	if _, err := validateRating(4, strings.Repeat("x", maxFeedbackLen+1)); !errors.Is(err, ErrValidation) {
		t.Errorf("overlong feedback: got %v, want ErrValidation", err)
	}
	if _, err := validateRating(4, strings.Repeat("x", maxFeedbackLen)); err != nil {
		t.Errorf("feedback at the limit rejected: %v", err)
	}
}
