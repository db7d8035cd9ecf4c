package models

import "time"

type MessageType string

const (
	MessageTypeAnnouncement  MessageType = "announcement"
	MessageTypeMaintenance   MessageType = "maintenance"
	MessageTypeFeatureUpdate MessageType = "feature_update"
	MessageTypeWarning       MessageType = "warning"
)

type MessagePriority string

const (
	MessagePriorityLow    MessagePriority = "low"
	MessagePriorityMedium MessagePriority = "medium"
	MessagePriorityHigh   MessagePriority = "high"
	MessagePriorityUrgent MessagePriority = "urgent"
)

// ReadReceipt records that a user has seen a broadcast.
type ReadReceipt struct {
	UserID string    `json:"userId"`
	ReadAt time.Time `json:"readAt"`
}

// AdminMessage is a platform-wide broadcast posted by an administrator.
type AdminMessage struct {
	ID        string
	Title     string
	Body      string
	Type      MessageType
	Priority  MessagePriority
	IsActive  bool
	ExpiresAt *time.Time
	ReadBy    []ReadReceipt
	SentByID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the broadcast has an expiry in the past.
func (m *AdminMessage) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && m.ExpiresAt.Before(now)
}
