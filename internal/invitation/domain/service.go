package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create stores a pending invitation and emails the accept link. The
	// caller is responsible for the owner-only check. The email is sent
	// after the row is committed; a send failure surfaces as ErrEmailSend
	// with the row left in place.
	Create(ctx context.Context, inviterID, projectID snowflake.ID, email string) (*Invitation, error)

	// Verify is public and deliberately conflates "never existed",
	// "expired" and "already accepted" into ErrNotFound.
	Verify(ctx context.Context, token string) (*VerifyResult, error)

	// Accept consumes a pending invitation exactly once. All precondition
	// failures collapse into ErrCouldNotAccept.
	Accept(ctx context.Context, userID snowflake.ID, userEmail, token string) error
}

var (
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrAlreadyMember  = errors.New("already_a_member")
	ErrAlreadyPending = errors.New("invitation_already_pending")
	ErrNotFound       = errors.New("invitation_not_found")
	ErrCouldNotAccept = errors.New("could_not_accept_invitation")
	ErrEmailSend      = errors.New("email_sending_failed")
)
