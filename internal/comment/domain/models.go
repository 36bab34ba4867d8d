package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Comment struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	TaskID    snowflake.ID  `gorm:"not null;index" json:"task_id"`
	UserID    snowflake.ID  `gorm:"not null" json:"user_id"`
	Content   string        `gorm:"not null" json:"content"`
	ParentID  *snowflake.ID `json:"parent_id"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

// ThreadItem is a comment flattened into thread order, depth 1 for roots.
type ThreadItem struct {
	Comment
	Depth       int    `json:"depth"`
	AuthorName  string `json:"author_name"`
	AuthorPhoto string `json:"author_photo"`
}
