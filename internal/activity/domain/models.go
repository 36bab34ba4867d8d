// Package domain contains persistence models for the activity trail.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Activity is an append-only audit row. Rows are never updated or deleted.
type Activity struct {
	ID                  snowflake.ID      `gorm:"primaryKey" json:"id"`
	ProjectID           snowflake.ID      `gorm:"not null;index:ix_activities_project_created,priority:1" json:"project_id"`
	UserID              snowflake.ID      `gorm:"not null" json:"user_id"`
	EntityType          string            `gorm:"type:text;not null" json:"entity_type"`
	EntityID            snowflake.ID      `gorm:"not null" json:"entity_id"`
	SecondaryEntityType *string           `gorm:"type:text" json:"secondary_entity_type,omitempty"`
	SecondaryEntityID   *snowflake.ID     `json:"secondary_entity_id,omitempty"`
	ActionType          string            `gorm:"type:text;not null" json:"action_type"`
	ChangeData          datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"change_data"`
	CreatedAt           time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index:ix_activities_project_created,priority:2" json:"created_at"`
}

// TableName sets the database table name.
func (Activity) TableName() string { return "activities" }

type ActivityCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type ListFilter struct {
	ProjectID  snowflake.ID
	EntityType string
	ActionType string
	Cursor     *ActivityCursor
	Limit      int
}
