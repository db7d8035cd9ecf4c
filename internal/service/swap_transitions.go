package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"skillswap/api/internal/models"
)

// SwapAction is a caller-initiated lifecycle action.
type SwapAction string

const (
	ActionAccept   SwapAction = "accept"
	ActionReject   SwapAction = "reject"
	ActionCancel   SwapAction = "cancel"
	ActionComplete SwapAction = "complete"
)

// transitionRule is one row of the lifecycle table. Every mutating entry
// point consults this table; no handler carries its own status checks.
type transitionRule struct {
	from []models.SwapStatus
	to   models.SwapStatus
}

var swapTransitions = map[SwapAction]transitionRule{
	ActionAccept:   {from: []models.SwapStatus{models.SwapStatusPending}, to: models.SwapStatusAccepted},
	ActionReject:   {from: []models.SwapStatus{models.SwapStatusPending}, to: models.SwapStatusRejected},
	ActionCancel:   {from: []models.SwapStatus{models.SwapStatusPending, models.SwapStatusAccepted}, to: models.SwapStatusCancelled},
	ActionComplete: {from: []models.SwapStatus{models.SwapStatusAccepted}, to: models.SwapStatusCompleted},
}

// TransitionAllowed reports whether action is valid from the given status.
func TransitionAllowed(from models.SwapStatus, action SwapAction) bool {
	rule, ok := swapTransitions[action]
	if !ok {
		return false
	}
	for _, s := range rule.from {
		if s == from {
			return true
		}
	}
	return false
}

// actorAllowed enforces who may invoke each action on a given swap.
func actorAllowed(swap *models.SwapRequest, callerID string, action SwapAction) error {
	switch action {
	case ActionAccept, ActionReject:
		if swap.RequestedID != callerID {
			return ErrForbidden
		}
	case ActionCancel:
		if swap.RequesterID != callerID {
			return ErrForbidden
		}
	case ActionComplete:
		if !swap.Participant(callerID) {
			return ErrForbidden
		}
	default:
		return fmt.Errorf("%w: unknown action %q", ErrValidation, action)
	}
	return nil
}

// CreateSwapInput carries the creation payload. The skill descriptors are
// snapshots; they are persisted as-is, decoupled from the live profile.
type CreateSwapInput struct {
	RequestedUserID string
	SkillOffered    models.SkillSnapshot
	SkillWanted     models.SkillSnapshot
	Message         string
	ProposedDate    *time.Time
	Duration        string
}

const (
	maxMessageLen   = 1000
	maxFeedbackLen  = 500
	defaultDuration = "1 hour"
)

// validateCreate checks the creation payload before any store access.
func validateCreate(callerID string, input CreateSwapInput) error {
	if strings.TrimSpace(input.RequestedUserID) == "" {
		return fmt.Errorf("%w: requested user id required", ErrValidation)
	}
	if input.RequestedUserID == callerID {
		return ErrSelfRequest
	}
	if strings.TrimSpace(input.SkillOffered.Name) == "" {
		return fmt.Errorf("%w: offered skill name required", ErrValidation)
	}
	if strings.TrimSpace(input.SkillWanted.Name) == "" {
		return fmt.Errorf("%w: wanted skill name required", ErrValidation)
	}
	if strings.TrimSpace(input.Message) == "" {
		return fmt.Errorf("%w: message required", ErrValidation)
	}
	if len(input.Message) > maxMessageLen {
		return fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxMessageLen)
	}
	return nil
}

// validateRating rejects non-integer and out-of-range ratings and overlong
// feedback. The rating arrives as float64 so that fractional values from
// the wire are caught here rather than silently truncated.
func validateRating(rating float64, feedback string) (int, error) {
	if rating != math.Trunc(rating) || rating < 1 || rating > 5 {
		return 0, ErrInvalidRating
	}
	if len(feedback) > maxFeedbackLen {
		return 0, fmt.Errorf("%w: feedback exceeds %d characters", ErrValidation, maxFeedbackLen)
	}
	return int(rating), nil
}
