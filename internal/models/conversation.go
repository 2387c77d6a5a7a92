package models

import "time"

// Conversation is the two-party thread record (PostgreSQL). The participant
// pair is stored normalized (UserAID < UserBID) so the unordered pair maps to
// exactly one row; the composite unique index is the pair key.
type Conversation struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserAID       uint      `json:"user_a_id" gorm:"index;uniqueIndex:idx_conversation_pair"`
	UserBID       uint      `json:"user_b_id" gorm:"uniqueIndex:idx_conversation_pair"`
	LastMessageAt time.Time `json:"last_message_at" gorm:"index"`
	CreatedAt     time.Time `json:"created_at"`
}

// NormalizePair orders an unordered participant pair for pair-key lookups.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// Counterpart returns the other participant of the conversation.
func (c *Conversation) Counterpart(userID uint) uint {
	if c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// HasParticipant reports whether userID belongs to the conversation.
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.UserAID == userID || c.UserBID == userID
}

// Message is one entry of a conversation's append-only log. Deleting is a
// soft-delete: the row stays in place so log ordering is preserved; read
// paths filter on IsDeleted. The reaction slot holds at most one emoji,
// last write wins.
type Message struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index"`
	SenderID       uint      `json:"sender_id" gorm:"index"`
	ReceiverID     uint      `json:"receiver_id" gorm:"index"`
	Text           string    `json:"text,omitempty"`
	MediaURL       string    `json:"media_url,omitempty"`
	Reaction       string    `json:"reaction,omitempty" gorm:"size:16"`
	IsDeleted      bool      `json:"is_deleted" gorm:"default:false"`
	CreatedAt      time.Time `json:"created_at"`
}

// SendMessageRequest defines the request body for sending a direct message.
// At least one of text or media is required; checked in the handler.
type SendMessageRequest struct {
	Text     string `json:"text,omitempty" validate:"omitempty,max=2000"`
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
}

// ReactRequest defines the request body for reacting to a message.
type ReactRequest struct {
	Emoji string `json:"emoji" validate:"required,max=16"`
}

// ChatPartner is a previous-chats list entry, ordered by the conversation's
// last activity, most recent first.
type ChatPartner struct {
	User          UserSummary `json:"user"`
	LastMessageAt time.Time   `json:"last_message_at"`
}
