package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMediaType(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateStoryRequest
		expected string
		ok       bool
	}{
		{
			name:     "text only infers text type",
			req:      CreateStoryRequest{Text: "hello"},
			expected: StoryMediaText,
			ok:       true,
		},
		{
			name: "whitespace only text rejected",
			req:  CreateStoryRequest{Text: "   "},
			ok:   false,
		},
		{
			name: "empty request rejected",
			req:  CreateStoryRequest{},
			ok:   false,
		},
		{
			name:     "image with url",
			req:      CreateStoryRequest{MediaType: StoryMediaImage, MediaURL: "https://cdn.example.com/a.jpg"},
			expected: StoryMediaImage,
			ok:       true,
		},
		{
			name:     "video with url",
			req:      CreateStoryRequest{MediaType: StoryMediaVideo, MediaURL: "https://cdn.example.com/a.mp4"},
			expected: StoryMediaVideo,
			ok:       true,
		},
		{
			name: "media url without a media type rejected",
			req:  CreateStoryRequest{MediaURL: "https://cdn.example.com/a.jpg"},
			ok:   false,
		},
		{
			name: "text type with media url rejected",
			req:  CreateStoryRequest{MediaType: StoryMediaText, MediaURL: "https://cdn.example.com/a.jpg"},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.req.ResolveMediaType()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestNormalizePair(t *testing.T) {
	a, b := NormalizePair(7, 3)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(7), b)

	a, b = NormalizePair(3, 7)
	assert.Equal(t, uint(3), a)
	assert.Equal(t, uint(7), b)
}

func TestConversationCounterpart(t *testing.T) {
	conv := Conversation{UserAID: 3, UserBID: 7}
	assert.Equal(t, uint(7), conv.Counterpart(3))
	assert.Equal(t, uint(3), conv.Counterpart(7))
	assert.True(t, conv.HasParticipant(3))
	assert.False(t, conv.HasParticipant(5))
}
