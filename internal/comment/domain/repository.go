package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, comment Comment) error
	FindByID(ctx context.Context, commentID snowflake.ID) (*Comment, error)
	// ListByTask returns all of a task's comments joined with their author,
	// ordered by created_at then id. Thread shape is rebuilt by the caller.
	ListByTask(ctx context.Context, taskID snowflake.ID) ([]ThreadItem, error)
}
