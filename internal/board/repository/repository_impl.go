package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/board/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) domain.Repository {
	return &repo{db: tx}
}

func (r *repo) Create(ctx context.Context, board domain.Board) error {
	return r.db.WithContext(ctx).Create(&board).Error
}

func (r *repo) FindByID(ctx context.Context, projectID, boardID snowflake.ID) (*domain.Board, error) {
	var board domain.Board
	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", boardID, projectID).
		First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *repo) ListByProject(ctx context.Context, projectID snowflake.ID) ([]domain.Board, error) {
	var boards []domain.Board
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position ASC").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}
	return boards, nil
}

func (r *repo) MaxPosition(ctx context.Context, projectID snowflake.ID) (int, error) {
	var position *int
	err := r.db.WithContext(ctx).Model(&domain.Board{}).
		Where("project_id = ?", projectID).
		Select("MAX(position)").
		Scan(&position).Error
	if err != nil {
		return 0, err
	}
	if position == nil {
		return -1, nil
	}
	return *position, nil
}

func (r *repo) Update(ctx context.Context, board *domain.Board) error {
	return r.db.WithContext(ctx).Model(&domain.Board{}).
		Where("id = ?", board.ID).
		Updates(map[string]any{
			"name":       board.Name,
			"color":      board.Color,
			"updated_at": board.UpdatedAt,
		}).Error
}

func (r *repo) Delete(ctx context.Context, projectID, boardID snowflake.ID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", boardID, projectID).
		Delete(&domain.Board{})
	return result.RowsAffected, result.Error
}
