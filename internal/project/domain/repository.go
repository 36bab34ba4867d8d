package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// DefaultBoard is the shape inserted for the three boards every new project
// starts with.
type DefaultBoard struct {
	ID        snowflake.ID
	ProjectID snowflake.ID
	Name      string
	Position  int
	CreatedAt time.Time
}

// MemberRoles is the single-query load used by role-change authorization.
type MemberRoles struct {
	ActorRole  Role
	TargetRole Role
	OwnerID    snowflake.ID
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateProject(ctx context.Context, project Project) error
	CreateMember(ctx context.Context, member ProjectMember) error
	CreateBoards(ctx context.Context, boards []DefaultBoard) error
	FindByURL(ctx context.Context, url string) (*Project, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Project, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]ProjectListItem, error)
	UpdateProject(ctx context.Context, project *Project) error
	DeleteByURL(ctx context.Context, url string) (int64, error)

	FindMember(ctx context.Context, projectID, userID snowflake.ID) (*ProjectMember, error)
	ListMembers(ctx context.Context, projectID snowflake.ID) ([]MemberItem, error)
	CountMemberships(ctx context.Context, userID snowflake.ID, projectIDs []snowflake.ID) (int64, error)
	UpdateMemberPin(ctx context.Context, projectID, userID snowflake.ID, pinned bool) error
	UpdateMemberSortOrder(ctx context.Context, projectID, userID snowflake.ID, sortOrder int) error
	LoadMemberRoles(ctx context.Context, projectID, actorID, targetID snowflake.ID) (*MemberRoles, error)
	UpdateMemberRole(ctx context.Context, projectID, userID snowflake.ID, role Role) error
	UpdateOwner(ctx context.Context, projectID, ownerID snowflake.ID) error
	DeleteMember(ctx context.Context, projectID, userID snowflake.ID) (int64, error)
}
