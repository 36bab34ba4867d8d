package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, actorID, projectID, boardID snowflake.ID, req CreateTaskRequest) (*TaskWithAssignees, error)
	Update(ctx context.Context, actorID, projectID, taskID snowflake.ID, req UpdateTaskRequest) (*TaskWithAssignees, error)
	Delete(ctx context.Context, actorID, projectID, taskID snowflake.ID) error
	Get(ctx context.Context, projectID, taskID snowflake.ID) (*TaskWithAssignees, error)
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]TaskWithAssignees, error)

	// ResolveProject maps a task to its project, for membership checks on
	// routes addressed by task id alone.
	ResolveProject(ctx context.Context, taskID snowflake.ID) (snowflake.ID, error)
}

type CreateTaskRequest struct {
	Name        string
	Description string
	Deadline    *time.Time
	AssigneeIDs []snowflake.ID
}

// UpdateTaskRequest is a partial update. Nil pointers mean "leave alone";
// SetDeadline distinguishes clearing the deadline from not touching it, and a
// nil AssigneeIDs slice from replacing the set with an empty one.
type UpdateTaskRequest struct {
	Name        *string
	Description *string
	Deadline    *time.Time
	SetDeadline bool
	BoardID     *snowflake.ID
	AssigneeIDs *[]snowflake.ID
}

var (
	ErrNotFound      = errors.New("task_not_found")
	ErrInvalidName   = errors.New("invalid_task_name")
	ErrBoardNotFound = errors.New("board_not_found")
)
