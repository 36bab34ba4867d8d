package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Task struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID   snowflake.ID `gorm:"not null;index" json:"project_id"`
	BoardID     snowflake.ID `gorm:"not null;index" json:"board_id"`
	Key         string       `gorm:"column:task_key;not null" json:"task_key"`
	Name        string       `gorm:"not null" json:"name"`
	Description string       `json:"description"`
	Status      string       `gorm:"not null" json:"status"`
	Deadline    *time.Time   `json:"deadline"`
	CreatedBy   snowflake.ID `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// AssigneeItem is the joined user row shown on task reads.
type AssigneeItem struct {
	UserID      snowflake.ID `json:"user_id"`
	Email       string       `json:"email"`
	DisplayName string       `json:"display_name"`
	PhotoURL    string       `json:"photo_url"`
}

// AssigneeRow ties an assignee to its task for batched project-level reads.
type AssigneeRow struct {
	TaskID snowflake.ID
	AssigneeItem
}

type TaskWithAssignees struct {
	Task
	Assignees []AssigneeItem `json:"assignees"`
}
