package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

type Invitation struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Token     string       `gorm:"not null" json:"-"`
	ProjectID snowflake.ID `gorm:"not null" json:"project_id"`
	Email     string       `gorm:"not null" json:"email"`
	InvitedBy snowflake.ID `gorm:"not null" json:"invited_by"`
	Status    Status       `gorm:"not null" json:"status"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time    `json:"created_at"`
}

func (Invitation) TableName() string { return "invitations" }

// VerifyResult is the public, pre-auth view of a pending invitation.
type VerifyResult struct {
	Email       string `json:"email"`
	ProjectName string `json:"project_name"`
	InviterName string `json:"inviter_name"`
}
