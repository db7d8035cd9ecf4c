package models

import "time"

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCompleted SwapStatus = "completed"
	SwapStatusCancelled SwapStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s SwapStatus) Terminal() bool {
	switch s {
	case SwapStatusRejected, SwapStatusCompleted, SwapStatusCancelled:
		return true
	}
	return false
}

// SkillSnapshot is the skill descriptor captured when a swap request is
// created. Later edits to the user's live skill list never touch it.
type SkillSnapshot struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SwapRating is one side's rating of the counterpart, settable once.
type SwapRating struct {
	Rating   int       `json:"rating"`
	Feedback string    `json:"feedback"`
	RatedAt  time.Time `json:"ratedAt"`
}

type SwapRequest struct {
	ID           string
	RequesterID  string
	RequestedID  string
	SkillOffered SkillSnapshot
	SkillWanted  SkillSnapshot
	Message      string
	Status       SwapStatus
	ProposedDate *time.Time
	Duration     string
	CompletedAt  *time.Time

	RequesterRating *SwapRating
	RequestedRating *SwapRating

	IsReported   bool
	ReportReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Participant reports whether userID is one of the two parties.
func (s *SwapRequest) Participant(userID string) bool {
	return s.RequesterID == userID || s.RequestedID == userID
}

// CounterpartID returns the other party's id, or "" if userID is not a
// participant.
func (s *SwapRequest) CounterpartID(userID string) string {
	switch userID {
	case s.RequesterID:
		return s.RequestedID
	case s.RequestedID:
		return s.RequesterID
	}
	return ""
}
