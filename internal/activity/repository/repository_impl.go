package repository

import (
	"context"
	"strings"

	"github.com/tassot/tassot/internal/activity/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.Activity) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO activities (
			id, project_id, user_id, entity_type, entity_id,
			secondary_entity_type, secondary_entity_id, action_type, change_data, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ProjectID,
		entry.UserID,
		entry.EntityType,
		entry.EntityID,
		entry.SecondaryEntityType,
		entry.SecondaryEntityID,
		entry.ActionType,
		entry.ChangeData,
		entry.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Activity, error) {
	var rows []*domain.Activity
	stmt := db.WithContext(ctx).Model(&domain.Activity{}).
		Where("project_id = ?", filter.ProjectID)

	if entityType := strings.TrimSpace(filter.EntityType); entityType != "" {
		stmt = stmt.Where("entity_type = ?", entityType)
	}
	if actionType := strings.TrimSpace(filter.ActionType); actionType != "" {
		stmt = stmt.Where("action_type = ?", actionType)
	}
	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit + 1)
	}

	if err := stmt.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
