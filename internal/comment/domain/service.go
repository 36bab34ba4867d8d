package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, authorID, taskID snowflake.ID, req CreateCommentRequest) (*Comment, error)
	// ListThread returns the task's comments depth-first: each root in
	// chronological order, immediately followed by its replies, recursively.
	ListThread(ctx context.Context, taskID snowflake.ID) ([]ThreadItem, error)
}

type CreateCommentRequest struct {
	Content  string
	ParentID *snowflake.ID
}

var (
	ErrEmptyContent   = errors.New("empty_comment")
	ErrParentNotFound = errors.New("parent_comment_not_found")
	ErrParentMismatch = errors.New("parent_belongs_to_other_task")
)
