// Package domain contains persistence models for the user service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// User is created on first sign-in, keyed by the identity provider subject id.
type User struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	SubjectID   string            `gorm:"type:text;not null;uniqueIndex:ux_users_subject_id;column:subject_id" json:"-"`
	Email       string            `gorm:"type:text;not null" json:"email"`
	DisplayName string            `gorm:"type:text;not null;default:''" json:"display_name"`
	PhotoURL    string            `gorm:"type:text;not null;default:'';column:photo_url" json:"photo_url"`
	Onboarded   bool              `gorm:"not null;default:false" json:"onboarded"`
	Settings    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
