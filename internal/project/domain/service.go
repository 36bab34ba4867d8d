package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, ownerID snowflake.ID, req CreateProjectRequest) (*Project, error)
	GetByURL(ctx context.Context, url string) (*Project, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]ProjectListItem, error)
	Edit(ctx context.Context, actorID snowflake.ID, url string, req EditProjectRequest) (*Project, error)
	Delete(ctx context.Context, actorID snowflake.ID, url string) error
	Pin(ctx context.Context, userID, projectID snowflake.ID, pinned bool) error
	UpdateOrder(ctx context.Context, userID snowflake.ID, order []ProjectOrder) error

	MemberRole(ctx context.Context, projectID, userID snowflake.ID) (Role, error)
	ListMembers(ctx context.Context, projectID snowflake.ID) ([]MemberItem, error)
	UpdateMemberRole(ctx context.Context, actorID, projectID, targetUserID snowflake.ID, newRole Role) error
	RemoveMember(ctx context.Context, requesterID, projectID, memberUserID snowflake.ID) error
}

type CreateProjectRequest struct {
	Name string
	Key  string
}

// EditProjectRequest is a partial update; nil fields are left untouched.
// Details is merged into the settings blob under "project_details".
type EditProjectRequest struct {
	Name        *string
	Key         *string
	Description *string
	Details     map[string]any
}

type ProjectOrder struct {
	ProjectID snowflake.ID
	SortOrder int
}

type ProjectListItem struct {
	ID        snowflake.ID `json:"id"`
	URL       string       `json:"url"`
	Key       string       `json:"key"`
	Name      string       `json:"name"`
	Role      Role         `json:"role"`
	Pinned    bool         `json:"pinned"`
	SortOrder *int         `json:"sort_order"`
	CreatedAt time.Time    `json:"created_at"`
}

type MemberItem struct {
	UserID      snowflake.ID `json:"user_id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"display_name"`
	PhotoURL    string       `json:"photo_url"`
	Role        Role         `json:"role"`
}

var (
	ErrInvalidName      = errors.New("invalid_project_name")
	ErrInvalidKey       = errors.New("invalid_project_key")
	ErrNotFound         = errors.New("project_not_found")
	ErrNotMember        = errors.New("not_a_member")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidRole      = errors.New("invalid_role")
	ErrCannotTargetSelf = errors.New("cannot_target_self")
	ErrMemberNotFound   = errors.New("member_not_found")
	ErrInvalidSettings  = errors.New("invalid_settings")
)
