package database

import (
	"time"

	"gorm.io/gorm"
)

// Setting is a namespaced key/value row. Client state that the browser build
// kept in localStorage (recent searches, the session token) lives here.
type Setting struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName overrides the table name
func (Setting) TableName() string {
	return "settings"
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Setting{})
}
