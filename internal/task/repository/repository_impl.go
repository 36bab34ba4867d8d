package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/task/domain"
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

func (r *repo) AllocateKey(ctx context.Context, projectID snowflake.ID) (string, int64, error) {
	var row struct {
		ProjectKey  string
		TaskCounter int64
	}
	err := r.db.WithContext(ctx).Raw(
		`UPDATE projects
		 SET task_counter = task_counter + 1
		 WHERE id = ?
		 RETURNING project_key, task_counter`,
		projectID,
	).Scan(&row).Error
	if err != nil {
		return "", 0, err
	}
	if row.ProjectKey == "" {
		return "", 0, domain.ErrNotFound
	}
	return row.ProjectKey, row.TaskCounter, nil
}

func (r *repo) BoardName(ctx context.Context, projectID, boardID snowflake.ID) (string, error) {
	var name string
	err := r.db.WithContext(ctx).Raw(
		`SELECT name FROM boards WHERE id = ? AND project_id = ?`,
		boardID, projectID,
	).Scan(&name).Error
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", domain.ErrBoardNotFound
	}
	return name, nil
}

func (r *repo) Create(ctx context.Context, task domain.Task) error {
	return r.db.WithContext(ctx).Create(&task).Error
}

func (r *repo) FindByID(ctx context.Context, projectID, taskID snowflake.ID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repo) ProjectOf(ctx context.Context, taskID snowflake.ID) (snowflake.ID, error) {
	var projectID snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT project_id FROM tasks WHERE id = ?`,
		taskID,
	).Scan(&projectID).Error
	if err != nil {
		return 0, err
	}
	if projectID == 0 {
		return 0, domain.ErrNotFound
	}
	return projectID, nil
}

func (r *repo) ListByProject(ctx context.Context, projectID snowflake.ID) ([]domain.Task, error) {
	var tasks []domain.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *repo) Update(ctx context.Context, taskID snowflake.ID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ?", taskID).
		Updates(fields).Error
}

func (r *repo) Delete(ctx context.Context, projectID, taskID snowflake.ID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", taskID, projectID).
		Delete(&domain.Task{})
	return result.RowsAffected, result.Error
}

func (r *repo) ListAssigneeIDs(ctx context.Context, taskID snowflake.ID) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT user_id FROM task_assignees WHERE task_id = ? ORDER BY user_id`,
		taskID,
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) ListAssignees(ctx context.Context, taskIDs []snowflake.ID) ([]domain.AssigneeRow, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var rows []domain.AssigneeRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT ta.task_id, u.id AS user_id, u.email, u.display_name, u.photo_url
		 FROM task_assignees ta
		 JOIN users u ON u.id = ta.user_id
		 WHERE ta.task_id IN ?
		 ORDER BY ta.task_id, u.id`,
		taskIDs,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) InsertAssignees(ctx context.Context, taskID snowflake.ID, userIDs []snowflake.ID) error {
	for _, userID := range userIDs {
		err := r.db.WithContext(ctx).Exec(
			`INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)`,
			taskID, userID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repo) DeleteAssignees(ctx context.Context, taskID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`DELETE FROM task_assignees WHERE task_id = ?`,
		taskID,
	).Error
}
