package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content kinds. Posts and loops share one document shape; they differ only in
// which collection they live in and which real-time events they emit.
const (
	ContentKindPost = "post"
	ContentKindLoop = "loop"
)

// Comment is an entry in a content item's append-only comment list.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`

	// Hydrated at read time, never persisted
	Author *UserSummary `json:"author,omitempty" bson:"-"`
}

// Content represents a post or loop stored in MongoDB. Likes and comments are
// embedded so membership toggles and appends are single-document updates.
type Content struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Caption   string             `json:"caption,omitempty" bson:"caption,omitempty"`
	Text      string             `json:"text,omitempty" bson:"text,omitempty"`
	MediaType string             `json:"media_type,omitempty" bson:"media_type,omitempty"` // "image" or "video"; empty for text-only
	MediaURL  string             `json:"media_url,omitempty" bson:"media_url,omitempty"`
	Likes     []uint             `json:"likes" bson:"likes"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`

	// Hydrated at read time, never persisted
	Author *UserSummary `json:"author,omitempty" bson:"-"`
}

// HasLike reports whether userID is in the liker set.
func (c *Content) HasLike(userID uint) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateContentRequest defines the request body for creating a post or loop.
// At least one of text or media is required; checked in Validate because the
// tag language cannot express the either-or.
type CreateContentRequest struct {
	Caption   string `json:"caption,omitempty" validate:"omitempty,max=500"`
	Text      string `json:"text,omitempty" validate:"omitempty,max=2000"`
	MediaType string `json:"media_type,omitempty" validate:"omitempty,oneof=image video"`
	MediaURL  string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// HasPayload reports whether the request carries text or media.
func (r *CreateContentRequest) HasPayload() bool {
	return r.Text != "" || r.Caption != "" || r.MediaURL != ""
}

// CreateCommentRequest defines the request body for commenting on a post or loop.
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
