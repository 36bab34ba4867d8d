package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	// AllocateKey bumps the project's task counter atomically and returns the
	// project key plus the counter value the caller should format into the
	// task key. Counter values are never reused, deletions included.
	AllocateKey(ctx context.Context, projectID snowflake.ID) (string, int64, error)

	BoardName(ctx context.Context, projectID, boardID snowflake.ID) (string, error)

	Create(ctx context.Context, task Task) error
	FindByID(ctx context.Context, projectID, taskID snowflake.ID) (*Task, error)
	ProjectOf(ctx context.Context, taskID snowflake.ID) (snowflake.ID, error)
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]Task, error)
	Update(ctx context.Context, taskID snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, projectID, taskID snowflake.ID) (int64, error)

	ListAssigneeIDs(ctx context.Context, taskID snowflake.ID) ([]snowflake.ID, error)
	ListAssignees(ctx context.Context, taskIDs []snowflake.ID) ([]AssigneeRow, error)
	InsertAssignees(ctx context.Context, taskID snowflake.ID, userIDs []snowflake.ID) error
	DeleteAssignees(ctx context.Context, taskID snowflake.ID) error
}
