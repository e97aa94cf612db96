package repositories

import (
	"gorm.io/gorm"
)

// BaseRepository holds the shared gorm handle every repository embeds.
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB exposes the raw connection for queries the typed methods don't cover.
func (r *BaseRepository) DB() *gorm.DB {
	return r.db
}
