package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	UpsertBySubject(ctx context.Context, req UpsertRequest) (*User, error)
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	GetBySubject(ctx context.Context, subjectID string) (*User, error)
	UpdateProfile(ctx context.Context, id snowflake.ID, req UpdateProfileRequest) (*User, error)
	CompleteOnboarding(ctx context.Context, id snowflake.ID) error
}

type UpsertRequest struct {
	SubjectID   string
	Email       string
	DisplayName string
	PhotoURL    string
}

// UpdateProfileRequest carries a partial profile update. Settings are merged
// into the stored blob, not replaced.
type UpdateProfileRequest struct {
	DisplayName *string
	PhotoURL    *string
	Settings    map[string]any
}

var (
	ErrInvalidSubject = errors.New("invalid_subject")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrNotFound       = errors.New("user_not_found")
)
