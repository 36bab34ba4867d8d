package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Board struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ProjectID snowflake.ID `gorm:"not null;index" json:"project_id"`
	Name      string       `gorm:"not null" json:"name"`
	Color     string       `json:"color"`
	Position  int          `gorm:"not null" json:"position"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (Board) TableName() string { return "boards" }
