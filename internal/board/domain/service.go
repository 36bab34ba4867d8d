package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, actorID, projectID snowflake.ID, req CreateBoardRequest) (*Board, error)
	Update(ctx context.Context, actorID, projectID, boardID snowflake.ID, req UpdateBoardRequest) (*Board, error)
	Delete(ctx context.Context, actorID, projectID, boardID snowflake.ID) error
	List(ctx context.Context, projectID snowflake.ID) ([]Board, error)
	Get(ctx context.Context, projectID, boardID snowflake.ID) (*Board, error)
}

type CreateBoardRequest struct {
	Name  string
	Color string
}

// UpdateBoardRequest is a partial update; nil fields are left untouched.
type UpdateBoardRequest struct {
	Name  *string
	Color *string
}

var (
	ErrNotFound     = errors.New("board_not_found")
	ErrInvalidName  = errors.New("invalid_board_name")
	ErrInvalidColor = errors.New("invalid_board_color")
)
