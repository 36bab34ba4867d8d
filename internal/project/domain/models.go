// Package domain contains persistence models for the project service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Project is the top-level collaboration unit. The short uppercase key
// prefixes every task key in the project.
type Project struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	URL         string            `gorm:"type:text;not null;uniqueIndex:ux_projects_url;column:url" json:"url"`
	Key         string            `gorm:"type:text;not null;uniqueIndex:ux_projects_key;column:project_key" json:"key"`
	Name        string            `gorm:"type:text;not null" json:"name"`
	Description string            `gorm:"type:text;not null;default:''" json:"description"`
	OwnerID     snowflake.ID      `gorm:"not null;column:owner_id" json:"owner_id"`
	Settings    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	TaskCounter int64             `gorm:"not null;default:0;column:task_counter" json:"-"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }

// ProjectMember represents membership of a user in a project. Exactly one
// member per project carries RoleOwner, and it matches Project.OwnerID.
type ProjectMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID snowflake.ID `gorm:"not null;index;uniqueIndex:ux_project_members_project_user,priority:1" json:"project_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_project_members_project_user,priority:2" json:"user_id"`
	Role      Role         `gorm:"type:text;not null" json:"role"`
	Pinned    bool         `gorm:"not null;default:false" json:"pinned"`
	SortOrder *int         `gorm:"column:sort_order" json:"sort_order"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (ProjectMember) TableName() string { return "project_members" }
