package service

import "errors"

// Swap lifecycle conditions. All of these are recoverable caller errors;
// handlers map them to HTTP statuses with errors.Is.
var (
	ErrForbidden         = errors.New("actor not allowed to perform this action")
	ErrInvalidTransition = errors.New("action not valid from current status")
	ErrValidation        = errors.New("invalid input")
	ErrInvalidRating     = errors.New("rating must be an integer between 1 and 5")
	ErrAlreadyRated      = errors.New("swap already rated by this side")
	ErrDuplicatePending  = errors.New("similar swap request already pending")
	ErrSelfRequest       = errors.New("cannot send swap request to yourself")

	// ErrInconsistency means the swap rating was written but the
	// counterpart's accumulator update failed. The stores disagree until
	// an operator reconciles them; never reported as success.
	ErrInconsistency = errors.New("rating recorded but accumulator update failed")

	// Moderation conditions.
	ErrCannotBanAdmin = errors.New("admin users cannot be banned")

	// Auth conditions.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserBanned         = errors.New("user is banned")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidResetToken  = errors.New("reset token invalid or expired")
)
