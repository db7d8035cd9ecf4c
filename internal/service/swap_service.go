package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"skillswap/api/internal/ids"
	"skillswap/api/internal/models"
	"skillswap/api/internal/repository"
)

// SwapService owns the swap-request lifecycle: creation preconditions,
// status transitions, and the rating exchange. It reads users but mutates
// them only through the rating accumulator.
type SwapService struct {
	swaps *repository.SwapRepository
	users *repository.UserRepository
	log   zerolog.Logger
}

func NewSwapService(swaps *repository.SwapRepository, users *repository.UserRepository, log zerolog.Logger) *SwapService {
	return &SwapService{
		swaps: swaps,
		users: users,
		log:   log,
	}
}

func (s *SwapService) Create(ctx context.Context, callerID string, input CreateSwapInput) (models.SwapRequest, error) {
	if err := validateCreate(callerID, input); err != nil {
		return models.SwapRequest{}, err
	}

	target, err := s.users.GetByID(ctx, input.RequestedUserID)
	if err != nil {
		return models.SwapRequest{}, err
	}
	// A banned target is indistinguishable from an absent one to callers.
	if target.IsBanned {
		return models.SwapRequest{}, repository.ErrUserNotFound
	}

	exists, err := s.swaps.HasPendingDuplicate(ctx, callerID, input.RequestedUserID, input.SkillOffered.Name, input.SkillWanted.Name)
	if err != nil {
		return models.SwapRequest{}, err
	}
	if exists {
		return models.SwapRequest{}, ErrDuplicatePending
	}

	duration := input.Duration
	if duration == "" {
		duration = defaultDuration
	}

	swap := models.SwapRequest{
		ID:           ids.New(),
		RequesterID:  callerID,
		RequestedID:  input.RequestedUserID,
		SkillOffered: input.SkillOffered,
		SkillWanted:  input.SkillWanted,
		Message:      input.Message,
		Status:       models.SwapStatusPending,
		ProposedDate: input.ProposedDate,
		Duration:     duration,
	}

	if err := s.swaps.Create(ctx, swap); err != nil {
		return models.SwapRequest{}, err
	}

	s.log.Info().
		Str("swap_id", swap.ID).
		Str("requester_id", callerID).
		Str("requested_id", input.RequestedUserID).
		Msg("swap request created")

	return s.swaps.GetByID(ctx, swap.ID)
}

// Get returns a swap to one of its participants.
func (s *SwapService) Get(ctx context.Context, callerID string, swapID string) (models.SwapRequest, error) {
	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return models.SwapRequest{}, err
	}
	if !swap.Participant(callerID) {
		return models.SwapRequest{}, ErrForbidden
	}
	return swap, nil
}

// SetStatus accepts or rejects a pending swap.
func (s *SwapService) SetStatus(ctx context.Context, callerID string, swapID string, status models.SwapStatus) (models.SwapRequest, error) {
	var action SwapAction
	switch status {
	case models.SwapStatusAccepted:
		action = ActionAccept
	case models.SwapStatusRejected:
		action = ActionReject
	default:
		return models.SwapRequest{}, fmt.Errorf("%w: status must be accepted or rejected", ErrValidation)
	}

	return s.apply(ctx, callerID, swapID, action)
}

// Cancel withdraws a pending or accepted swap.
func (s *SwapService) Cancel(ctx context.Context, callerID string, swapID string) error {
	_, err := s.apply(ctx, callerID, swapID, ActionCancel)
	return err
}

// Complete marks an accepted swap as done and stamps completedAt.
func (s *SwapService) Complete(ctx context.Context, callerID string, swapID string) (models.SwapRequest, error) {
	return s.apply(ctx, callerID, swapID, ActionComplete)
}

// apply runs one lifecycle action: authorization, transition-table check,
// then a compare-and-set write. Zero rows matched after a valid read means
// a concurrent writer got there first; that is still an invalid transition
// from the caller's point of view.
func (s *SwapService) apply(ctx context.Context, callerID string, swapID string, action SwapAction) (models.SwapRequest, error) {
	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return models.SwapRequest{}, err
	}

	if err := actorAllowed(&swap, callerID, action); err != nil {
		return models.SwapRequest{}, err
	}

	if !TransitionAllowed(swap.Status, action) {
		return models.SwapRequest{}, fmt.Errorf("%w: cannot %s a %s swap", ErrInvalidTransition, action, swap.Status)
	}

	rule := swapTransitions[action]
	moved, err := s.swaps.TransitionStatus(ctx, swapID, rule.from, rule.to)
	if err != nil {
		return models.SwapRequest{}, err
	}
	if !moved {
		return models.SwapRequest{}, fmt.Errorf("%w: swap no longer %s", ErrInvalidTransition, swap.Status)
	}

	s.log.Info().
		Str("swap_id", swapID).
		Str("action", string(action)).
		Str("status", string(rule.to)).
		Msg("swap transitioned")

	return s.swaps.GetByID(ctx, swapID)
}

// Rate records the caller's rating of the counterpart on a completed swap
// and feeds the counterpart's accumulator. Two independent atomic writes;
// a failure between them is reported as an inconsistency, never as success.
func (s *SwapService) Rate(ctx context.Context, callerID string, swapID string, rating float64, feedback string) error {
	value, err := validateRating(rating, feedback)
	if err != nil {
		return err
	}

	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return err
	}
	if !swap.Participant(callerID) {
		return ErrForbidden
	}
	if swap.Status != models.SwapStatusCompleted {
		return fmt.Errorf("%w: can only rate completed swaps", ErrInvalidTransition)
	}

	byRequester := swap.RequesterID == callerID
	if (byRequester && swap.RequesterRating != nil) || (!byRequester && swap.RequestedRating != nil) {
		return ErrAlreadyRated
	}

	record := models.SwapRating{
		Rating:   value,
		Feedback: feedback,
		RatedAt:  time.Now().UTC(),
	}

	written, err := s.swaps.SetRating(ctx, swapID, byRequester, record)
	if err != nil {
		return err
	}
	if !written {
		// The guard failed under our feet: either a concurrent rating from
		// the same side or a status we did not expect.
		current, err := s.swaps.GetByID(ctx, swapID)
		if err != nil {
			return err
		}
		if current.Status != models.SwapStatusCompleted {
			return fmt.Errorf("%w: can only rate completed swaps", ErrInvalidTransition)
		}
		return ErrAlreadyRated
	}

	counterpartID := swap.CounterpartID(callerID)
	if err := s.users.AddRating(ctx, counterpartID, value); err != nil {
		s.log.Error().
			Err(err).
			Str("swap_id", swapID).
			Str("user_id", counterpartID).
			Int("rating", value).
			Msg("rating accumulator update failed after swap rating write")
		return fmt.Errorf("%w: %v", ErrInconsistency, err)
	}

	return nil
}

// Report flags a swap for moderation. Either participant may report.
func (s *SwapService) Report(ctx context.Context, callerID string, swapID string, reason string) error {
	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return err
	}
	if !swap.Participant(callerID) {
		return ErrForbidden
	}
	return s.swaps.SetReported(ctx, swapID, reason)
}

// ListSide selects which side of the swap the caller occupies.
type ListSide string

const (
	SideSent     ListSide = "sent"
	SideReceived ListSide = "received"
)

func (s *SwapService) ListByParticipant(ctx context.Context, callerID string, side ListSide, limit, offset int) ([]models.SwapRequest, error) {
	switch side {
	case SideSent:
		return s.swaps.ListByRequester(ctx, callerID, limit, offset)
	case SideReceived:
		return s.swaps.ListByRequested(ctx, callerID, limit, offset)
	}
	return nil, fmt.Errorf("%w: side must be sent or received", ErrValidation)
}
