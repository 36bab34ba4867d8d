package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Activity) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Activity, error)
}
