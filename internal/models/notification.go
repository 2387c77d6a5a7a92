package models

import "time"

// Notification kinds. The set is extensible; these are the ones the core
// generates today.
const (
	NotificationTypeLike            = "like"
	NotificationTypeComment         = "comment"
	NotificationTypeFollow          = "follow"
	NotificationTypeMessageReaction = "message_reaction"
)

// Notification target types.
const (
	TargetTypePost    = "post"
	TargetTypeLoop    = "loop"
	TargetTypeUser    = "user"
	TargetTypeMessage = "message"
)

// Notification is a persisted user notification (PostgreSQL). Created exactly
// once per qualifying transition; only IsRead ever changes afterwards.
// Notifications referencing a deleted content item are removed with it.
type Notification struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Type       string    `json:"type" gorm:"size:30;index"`
	SenderID   uint      `json:"sender_id" gorm:"index"`
	ReceiverID uint      `json:"receiver_id" gorm:"index"`
	TargetID   string    `json:"target_id,omitempty"`                // content ObjectID hex or message ID
	TargetType string    `json:"target_type,omitempty" gorm:"size:20"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`

	// Hydrated at read time, never persisted
	Sender   *UserSummary `json:"sender,omitempty" gorm:"-"`
	Receiver *UserSummary `json:"receiver,omitempty" gorm:"-"`
	Content  *Content     `json:"content,omitempty" gorm:"-"`
}

// MarkReadRequest marks one or more notifications read; only the receiver's
// own notifications are affected.
type MarkReadRequest struct {
	NotificationIDs []uint `json:"notification_ids" validate:"required,min=1,dive,required"`
}
