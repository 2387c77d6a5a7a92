package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoryTTL is the hard lifetime of a story. Reads at or beyond
// CreatedAt+StoryTTL must behave as if the story does not exist, independent
// of when the TTL monitor physically removes the document.
const StoryTTL = 24 * time.Hour

// Story media types.
const (
	StoryMediaImage = "image"
	StoryMediaVideo = "video"
	StoryMediaText  = "text"
)

// Story is a user's single active ephemeral story, stored in MongoDB with a
// TTL index on ExpiresAt. At most one story per author exists at any time.
type Story struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	MediaType string             `json:"media_type" bson:"media_type"` // image, video or text
	MediaURL  string             `json:"media_url,omitempty" bson:"media_url,omitempty"`
	Text      string             `json:"text,omitempty" bson:"text,omitempty"`
	Viewers   []uint             `json:"viewers" bson:"viewers"` // distinct, first-view order
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time          `json:"expires_at" bson:"expires_at"`

	// Hydrated at read time, never persisted
	Author      *UserSummary  `json:"author,omitempty" bson:"-"`
	ViewerUsers []UserSummary `json:"viewer_users,omitempty" bson:"-"`
}

// HasViewer reports whether userID already viewed the story.
func (s *Story) HasViewer(userID uint) bool {
	for _, id := range s.Viewers {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateStoryRequest defines the request body for publishing a story.
type CreateStoryRequest struct {
	MediaType string `json:"media_type,omitempty" validate:"omitempty,oneof=image video text"`
	MediaURL  string `json:"media_url,omitempty" validate:"omitempty,url"`
	Text      string `json:"text,omitempty" validate:"omitempty,max=1000"`
}

// ResolveMediaType validates the media/text combination and returns the
// effective media type: the declared one when media is present, "text" when
// only text was supplied.
func (r *CreateStoryRequest) ResolveMediaType() (string, bool) {
	text := strings.TrimSpace(r.Text)
	if r.MediaURL == "" && text == "" {
		return "", false
	}
	if r.MediaURL == "" {
		return StoryMediaText, true
	}
	if r.MediaType == "" || r.MediaType == StoryMediaText {
		return "", false
	}
	return r.MediaType, true
}
