package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, board Board) error
	FindByID(ctx context.Context, projectID, boardID snowflake.ID) (*Board, error)
	ListByProject(ctx context.Context, projectID snowflake.ID) ([]Board, error)
	MaxPosition(ctx context.Context, projectID snowflake.ID) (int, error)
	Update(ctx context.Context, board *Board) error
	Delete(ctx context.Context, projectID, boardID snowflake.ID) (int64, error)
}
