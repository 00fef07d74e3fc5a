package model

import (
	"time"

	"github.com/google/uuid"
)

type Invitation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	BoardID   uuid.UUID `gorm:"type:uuid;not null;index"`
	InviterID uuid.UUID `gorm:"type:uuid;not null"`
	InviteeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    string    `gorm:"not null;default:'pending';check:status IN ('pending', 'accepted', 'rejected')"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Board   Board `gorm:"foreignKey:BoardID"`
	Inviter User  `gorm:"foreignKey:InviterID"`
	Invitee User  `gorm:"foreignKey:InviteeID"`
}

// Invitation states. Once accepted or rejected an invitation is never
// reopened.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationRejected = "rejected"
)
