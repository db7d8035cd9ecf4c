package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"skillswap/api/internal/models"
	"skillswap/api/internal/repository"
)

// UserService covers the member-facing directory: own profile edits and
// browsing other members' public profiles.
type UserService struct {
	users *repository.UserRepository
	log   zerolog.Logger
}

func NewUserService(users *repository.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetPublic returns another member's profile, refusing private or banned
// profiles. The owner can always see their own.
func (s *UserService) GetPublic(ctx context.Context, callerID string, id string) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if id != callerID && (!user.IsProfilePublic || user.IsBanned) {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type UpdateProfileInput struct {
	FullName        string
	Location        string
	ProfilePhoto    string
	Bio             string
	Availability    []string
	IsProfilePublic bool
}

const maxBioLen = 500

func (s *UserService) UpdateProfile(ctx context.Context, callerID string, input UpdateProfileInput) (models.User, error) {
	if input.FullName == "" {
		return models.User{}, fmt.Errorf("%w: full name required", ErrValidation)
	}
	if len(input.Bio) > maxBioLen {
		return models.User{}, fmt.Errorf("%w: bio exceeds %d characters", ErrValidation, maxBioLen)
	}
	if err := validateAvailability(input.Availability); err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return models.User{}, err
	}

	user.FullName = input.FullName
	user.Location = input.Location
	user.ProfilePhoto = input.ProfilePhoto
	user.Bio = input.Bio
	user.Availability = input.Availability
	user.IsProfilePublic = input.IsProfilePublic

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, callerID)
}

func (s *UserService) UpdateSkills(ctx context.Context, callerID string, offered []models.SkillOffered, wanted []models.SkillWanted) (models.User, error) {
	for _, skill := range offered {
		if skill.Name == "" {
			return models.User{}, fmt.Errorf("%w: offered skill name required", ErrValidation)
		}
	}
	for _, skill := range wanted {
		if skill.Name == "" {
			return models.User{}, fmt.Errorf("%w: wanted skill name required", ErrValidation)
		}
	}

	if err := s.users.UpdateSkills(ctx, callerID, offered, wanted); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, callerID)
}

// Browse lists public member profiles matching an optional search term.
func (s *UserService) Browse(ctx context.Context, search string, limit, offset int) ([]models.User, error) {
	return s.users.SearchPublic(ctx, search, limit, offset)
}

func validateAvailability(slots []string) error {
	for _, slot := range slots {
		if !models.ValidAvailabilitySlot(slot) {
			return fmt.Errorf("%w: unknown availability slot %q", ErrValidation, slot)
		}
	}
	return nil
}
