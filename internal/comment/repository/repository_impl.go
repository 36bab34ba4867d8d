package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/comment/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, comment domain.Comment) error {
	return r.db.WithContext(ctx).Create(&comment).Error
}

func (r *repo) FindByID(ctx context.Context, commentID snowflake.ID) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.db.WithContext(ctx).
		Where("id = ?", commentID).
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrParentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repo) ListByTask(ctx context.Context, taskID snowflake.ID) ([]domain.ThreadItem, error) {
	var rows []domain.ThreadItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT c.id, c.task_id, c.user_id, c.content, c.parent_id, c.created_at,
		        u.display_name AS author_name, u.photo_url AS author_photo
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.task_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`,
		taskID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
