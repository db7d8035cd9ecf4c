package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"skillswap/api/internal/models"
)

func TestCreateRejectsSelfBeforeStoreAccess(t *testing.T) {
	// Nil repositories: a self-directed request must fail in the
	// precondition checks without ever reaching the store.
	svc := NewSwapService(nil, nil, zerolog.Nop())

	input := CreateSwapInput{
		RequestedUserID: "alice",
		SkillOffered:    models.SkillSnapshot{Name: "Guitar"},
		SkillWanted:     models.SkillSnapshot{Name: "Spanish"},
		Message:         "trade lessons?",
	}
	_, err := svc.Create(context.Background(), "alice", input)
	if !errors.Is(err, ErrSelfRequest) {
		t.Fatalf("self-directed create: got %v, want ErrSelfRequest", err)
	}
}
