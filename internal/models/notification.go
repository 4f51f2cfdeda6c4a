package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationGeneric            NotificationType = "GENERIC"
	NotificationInvitation         NotificationType = "INVITATION"
	NotificationAssignmentCreated  NotificationType = "ASSIGNMENT_CREATED"
	NotificationAssignmentRemoved  NotificationType = "ASSIGNMENT_REMOVED"
	NotificationAssignmentDueDate  NotificationType = "ASSIGNMENT_DUE_DATE"
	NotificationDecisionRecorded   NotificationType = "DECISION_RECORDED"
	NotificationConferenceApproved NotificationType = "CONFERENCE_APPROVED"
	NotificationConferenceRejected NotificationType = "CONFERENCE_REJECTED"
)

type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is a per-user message. Deletion is soft via IsDeleted; rows
// are never removed. Invitation notifications reference the Invitation row
// rather than embedding its state in the message body.
type Notification struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"not null;index;size:255"`

	Type    NotificationType `json:"type" gorm:"not null;default:GENERIC;size:30"`
	Title   string           `json:"title" gorm:"not null;size:200"`
	Message string           `json:"message" gorm:"type:text;not null"`

	IsRead     bool `json:"is_read" gorm:"default:false"`
	IsArchived bool `json:"is_archived" gorm:"default:false"`
	IsDeleted  bool `json:"is_deleted" gorm:"default:false;index"`

	InvitationID *string `json:"invitation_id" gorm:"size:36;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User       User        `json:"-" gorm:"foreignKey:UserID"`
	Invitation *Invitation `json:"invitation,omitempty" gorm:"foreignKey:InvitationID"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRefused  InvitationStatus = "REFUSED"
)

// Invitation is a one-shot role offer: PENDING -> ACCEPTED | REFUSED, no
// re-offer without a brand-new invitation. Accepting grants the named role.
type Invitation struct {
	ID           string         `json:"id" gorm:"primaryKey;size:36"`
	UserID       string         `json:"user_id" gorm:"not null;index;size:255"`
	ConferenceID string         `json:"conference_id" gorm:"not null;index;size:36"`
	Role         ConferenceRole `json:"role" gorm:"not null;size:20"`

	Status          InvitationStatus `json:"status" gorm:"not null;default:PENDING;size:20"`
	OriginalMessage string           `json:"original_message" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`

	User       User       `json:"-" gorm:"foreignKey:UserID"`
	Conference Conference `json:"-" gorm:"foreignKey:ConferenceID"`
}

func (i *Invitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}

func (Invitation) TableName() string {
	return "invitations"
}
