package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/rudro-dev/loopgram/backend/internal/models"
)

// Event names. Targeted events go to exactly one user's channel; global
// events go to every connected client so feeds stay current without
// per-viewer subscriptions.
const (
	// Targeted
	EventNewNotification = "newNotification"
	EventNewMessage      = "newMessage"
	EventReactedMessage  = "reactedMessage"
	EventDeletedMessage  = "deletedMessage"

	// Global
	EventLikedPost     = "likedPost"
	EventLikedLoop     = "likedLoop"
	EventCommentedPost = "commentedPost"
	EventCommentedLoop = "commentedLoop"
	EventPostDeleted   = "postDeleted"
	EventLoopDeleted   = "loopDeleted"
)

// Event is the wire envelope for every real-time frame.
type Event struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent wraps a payload in an envelope with a fresh ID and timestamp.
func NewEvent(name string, payload interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Event:     name,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// LikedPayload carries the updated liker set after a like toggle.
type LikedPayload struct {
	ItemID string `json:"itemId"`
	Likes  []uint `json:"likes"`
}

// CommentedPayload carries the updated comment list after an append.
type CommentedPayload struct {
	ItemID   string           `json:"itemId"`
	Comments []models.Comment `json:"comments"`
}

// DeletedPayload announces a removed content item.
type DeletedPayload struct {
	ItemID string `json:"itemId"`
}

// DeletedMessagePayload announces a soft-deleted direct message.
type DeletedMessagePayload struct {
	MessageID uint `json:"messageId"`
}

// LikedEventFor maps a content kind to its like event name.
func LikedEventFor(kind string) string {
	if kind == models.ContentKindLoop {
		return EventLikedLoop
	}
	return EventLikedPost
}

// CommentedEventFor maps a content kind to its comment event name.
func CommentedEventFor(kind string) string {
	if kind == models.ContentKindLoop {
		return EventCommentedLoop
	}
	return EventCommentedPost
}

// DeletedEventFor maps a content kind to its deletion event name.
func DeletedEventFor(kind string) string {
	if kind == models.ContentKindLoop {
		return EventLoopDeleted
	}
	return EventPostDeleted
}
