package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// InviteContext carries the display data the invitation email needs.
type InviteContext struct {
	ProjectName string
	InviterName string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	IsMemberEmail(ctx context.Context, projectID snowflake.ID, email string) (bool, error)
	HasPending(ctx context.Context, projectID snowflake.ID, email string, now time.Time) (bool, error)
	Insert(ctx context.Context, invitation Invitation) error

	FindVerify(ctx context.Context, token string, now time.Time) (*VerifyResult, error)
	// FindByTokenForUpdate row-locks the invitation where the dialect
	// supports it.
	FindByTokenForUpdate(ctx context.Context, token string) (*Invitation, error)
	InsertMembership(ctx context.Context, memberID, projectID, userID snowflake.ID, role string) error
	MarkAccepted(ctx context.Context, invitationID snowflake.ID) error

	InviteContext(ctx context.Context, projectID, inviterID snowflake.ID) (*InviteContext, error)
}
