package models

import "time"

// SavedContent is a bookmark of a post or loop by a user. The composite
// unique index keeps each bookmark at most once.
type SavedContent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_content_save"`
	ContentID string    `json:"content_id" gorm:"index;uniqueIndex:idx_user_content_save"` // Mongo ObjectID hex
	Kind      string    `json:"kind" gorm:"size:10"`                                       // post or loop
	CreatedAt time.Time `json:"created_at"`
}
