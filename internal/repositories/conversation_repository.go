package repositories

import (
	"errors"
	"time"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository maintains the two-party threads and their
// append-only message logs.
type ConversationRepository interface {
	ResolveOrCreate(userA, userB uint) (*models.Conversation, error)
	GetByPair(userA, userB uint) (*models.Conversation, error)
	AppendMessage(conv *models.Conversation, msg *models.Message) error
	GetMessages(conversationID uint) ([]models.Message, error)
	CountMessages(conversationID uint) (int64, error)
	GetMessageByID(id uint) (*models.Message, error)
	ReactToMessage(id uint, emoji string) (*models.Message, error)
	SoftDeleteMessage(id uint, actingUserID uint) (*models.Message, error)
	ListConversationsFor(userID uint) ([]models.Conversation, error)
}

// PostgresConversationRepository implements ConversationRepository
type PostgresConversationRepository struct {
	db *gorm.DB
}

func NewPostgresConversationRepository(db *gorm.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

// ResolveOrCreate returns the conversation for the unordered pair, creating
// it on first contact. The pair is normalized before lookup so direction
// never matters. Two near-simultaneous first messages can both reach the
// insert; the unique pair index lets only one row in, and the loser re-reads
// the winner instead of surfacing the conflict.
func (r *PostgresConversationRepository) ResolveOrCreate(userA, userB uint) (*models.Conversation, error) {
	a, b := models.NormalizePair(userA, userB)

	conv, err := r.GetByPair(a, b)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	created := &models.Conversation{UserAID: a, UserBID: b, LastMessageAt: time.Now()}
	if createErr := r.db.Create(created).Error; createErr != nil {
		// Lost the creation race; the winner's row must exist now.
		if conv, err = r.GetByPair(a, b); err == nil {
			return conv, nil
		}
		return nil, createErr
	}
	return created, nil
}

func (r *PostgresConversationRepository) GetByPair(userA, userB uint) (*models.Conversation, error) {
	a, b := models.NormalizePair(userA, userB)
	var conv models.Conversation
	err := r.db.Where("user_a_id = ? AND user_b_id = ?", a, b).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &conv, nil
}

// AppendMessage inserts the message and bumps the conversation's
// last-activity marker in one transaction. Log order is the insertion order
// of accepted appends, not any client-supplied timestamp.
func (r *PostgresConversationRepository) AppendMessage(conv *models.Conversation, msg *models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		msg.ConversationID = conv.ID
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		conv.LastMessageAt = msg.CreatedAt
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conv.ID).
			Update("last_message_at", msg.CreatedAt).Error
	})
}

// GetMessages returns the conversation's messages in log order with
// soft-deleted entries excluded.
func (r *PostgresConversationRepository) GetMessages(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("conversation_id = ? AND is_deleted = ?", conversationID, false).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// CountMessages counts all stored messages including soft-deleted ones.
func (r *PostgresConversationRepository) CountMessages(conversationID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Where("conversation_id = ?", conversationID).Count(&count).Error
	return count, err
}

func (r *PostgresConversationRepository) GetMessageByID(id uint) (*models.Message, error) {
	var msg models.Message
	if err := r.db.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// ReactToMessage replaces the message's reaction slot. No history is kept;
// re-reacting overwrites, last write wins.
func (r *PostgresConversationRepository) ReactToMessage(id uint, emoji string) (*models.Message, error) {
	res := r.db.Model(&models.Message{}).Where("id = ?", id).Update("reaction", emoji)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetMessageByID(id)
}

// SoftDeleteMessage flags the message deleted. Only the sender may delete;
// the row is never removed, so conversation ordering stays intact.
func (r *PostgresConversationRepository) SoftDeleteMessage(id uint, actingUserID uint) (*models.Message, error) {
	msg, err := r.GetMessageByID(id)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != actingUserID {
		return nil, ErrForbidden
	}
	if err := r.db.Model(&models.Message{}).Where("id = ?", id).Update("is_deleted", true).Error; err != nil {
		return nil, err
	}
	msg.IsDeleted = true
	return msg, nil
}

// ListConversationsFor returns the user's conversations ordered by last
// activity, most recent first.
func (r *PostgresConversationRepository) ListConversationsFor(userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}
