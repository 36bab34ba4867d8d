package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/pkg/db/pagination"
)

// Entry is what mutation call sites hand to the logger. Required fields:
// ProjectID, UserID, EntityType, EntityID, ActionType.
type Entry struct {
	ProjectID           snowflake.ID
	UserID              snowflake.ID
	EntityType          string
	EntityID            snowflake.ID
	SecondaryEntityType string
	SecondaryEntityID   snowflake.ID
	ActionType          string
	ChangeData          map[string]any
}

type ListRequest struct {
	pagination.Pagination
	ProjectID  snowflake.ID
	EntityType string
	ActionType string
}

type ListResponse struct {
	pagination.PageInfo
	Activities []Activity `json:"activities"`
}

// Service records and reads the audit trail. Record is fire-and-forget: it
// never blocks the caller and never surfaces a failure.
type Service interface {
	Record(ctx context.Context, entry Entry)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrInvalidProject   = errors.New("invalid_project")
	ErrInvalidPageToken = errors.New("invalid_page_token")
)
