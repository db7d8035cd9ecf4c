package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "Beginner"
	SkillLevelIntermediate SkillLevel = "Intermediate"
	SkillLevelAdvanced     SkillLevel = "Advanced"
	SkillLevelExpert       SkillLevel = "Expert"
)

type SkillPriority string

const (
	SkillPriorityLow    SkillPriority = "Low"
	SkillPriorityMedium SkillPriority = "Medium"
	SkillPriorityHigh   SkillPriority = "High"
)

// AvailabilitySlots is the fixed vocabulary for the availability tags.
var AvailabilitySlots = []string{
	"Weekdays Morning",
	"Weekdays Afternoon",
	"Weekdays Evening",
	"Weekends Morning",
	"Weekends Afternoon",
	"Weekends Evening",
}

// ValidAvailabilitySlot reports whether slot is part of the fixed vocabulary.
func ValidAvailabilitySlot(slot string) bool {
	for _, s := range AvailabilitySlots {
		if s == slot {
			return true
		}
	}
	return false
}

// SkillOffered is one entry in a user's offered-skill list.
type SkillOffered struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Level       SkillLevel `json:"level"`
}

// SkillWanted is one entry in a user's wanted-skill list.
type SkillWanted struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Priority    SkillPriority `json:"priority"`
}

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	FullName     string
	Location     string
	ProfilePhoto string
	Bio          string

	SkillsOffered []SkillOffered
	SkillsWanted  []SkillWanted
	Availability  []string

	IsProfilePublic bool
	IsVerified      bool
	IsBanned        bool
	Role            UserRole

	// Rating accumulator. AverageRating is maintained alongside the
	// increments and always equals TotalRating/RatingCount, or 0 when
	// RatingCount is 0.
	TotalRating   int
	RatingCount   int
	AverageRating float64

	ResetTokenHash    []byte
	ResetTokenExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Session struct {
	ID               string
	UserID           string
	DeviceID         string
	DeviceName       string
	RefreshTokenHash []byte
	IPAddress        string
	UserAgent        string
	CreatedAt        time.Time
	LastSeenAt       time.Time
	ExpiresAt        time.Time
}
