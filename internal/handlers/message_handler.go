package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/notifications"
	"github.com/rudro-dev/loopgram/backend/internal/realtime"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

type MessageHandler struct {
	conversations repositories.ConversationRepository
	users         repositories.UserRepository
	notifier      *notifications.Service
	dispatcher    *realtime.Dispatcher
}

func NewMessageHandler(conversations repositories.ConversationRepository, users repositories.UserRepository, notifier *notifications.Service, dispatcher *realtime.Dispatcher) *MessageHandler {
	return &MessageHandler{
		conversations: conversations,
		users:         users,
		notifier:      notifier,
		dispatcher:    dispatcher,
	}
}

// Send appends a message to the thread with the target user, creating
// the thread on first contact. The receiver gets a targeted newMessage
// event if they are connected.
func (h *MessageHandler) Send(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	receiverID, err := h.targetUserID(c)
	if err != nil {
		return err
	}
	if receiverID == user.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}
	if _, err := h.users.GetUserByID(receiverID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Text == "" && req.MediaURL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Message requires text or media")
	}

	conv, err := h.conversations.ResolveOrCreate(user.ID, receiverID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to open conversation")
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       user.ID,
		ReceiverID:     receiverID,
		Text:           req.Text,
		MediaURL:       req.MediaURL,
	}
	if err := h.conversations.AppendMessage(conv, msg); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message")
	}

	h.dispatcher.SendToUser(receiverID, realtime.EventNewMessage, msg)

	logger.Log.Debug("message sent",
		zap.Uint("conversation_id", conv.ID),
		zap.Uint("sender_id", user.ID),
		zap.Uint("receiver_id", receiverID))
	return c.JSON(http.StatusCreated, msg)
}

// GetMessages returns the visible log of the thread with the target
// user, oldest first. An empty list is returned when the two have
// never chatted.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	otherID, err := h.targetUserID(c)
	if err != nil {
		return err
	}

	conv, err := h.conversations.GetByPair(user.ID, otherID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.JSON(http.StatusOK, []models.Message{})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load conversation")
	}

	messages, err := h.conversations.GetMessages(conv.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load messages")
	}
	return c.JSON(http.StatusOK, messages)
}

// PreviousChats lists the caller's conversation partners by last
// activity, most recent first.
func (h *MessageHandler) PreviousChats(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	convs, err := h.conversations.ListConversationsFor(user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load conversations")
	}

	partnerIDs := make([]uint, 0, len(convs))
	for i := range convs {
		partnerIDs = append(partnerIDs, convs[i].Counterpart(user.ID))
	}
	summaries, err := summariesByID(h.users, partnerIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load users")
	}

	partners := make([]models.ChatPartner, 0, len(convs))
	for i := range convs {
		summary, ok := summaries[convs[i].Counterpart(user.ID)]
		if !ok {
			continue
		}
		partners = append(partners, models.ChatPartner{
			User:          summary,
			LastMessageAt: convs[i].LastMessageAt,
		})
	}
	return c.JSON(http.StatusOK, partners)
}

// React sets the caller's reaction on a message, overwriting any
// earlier one. The other participant gets a reactedMessage event, and
// the message's sender is notified when someone else reacts.
func (h *MessageHandler) React(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req models.ReactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, conv, err := h.messageForParticipant(c, user.ID)
	if err != nil {
		return err
	}

	msg, err = h.conversations.ReactToMessage(msg.ID, req.Emoji)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to react")
	}

	h.dispatcher.SendToUser(conv.Counterpart(user.ID), realtime.EventReactedMessage, msg)
	h.notifier.NotifyMessageReaction(user.ID, msg)

	return c.JSON(http.StatusOK, msg)
}

// Delete soft-deletes a message the caller sent. The other participant
// gets a deletedMessage event so open threads update in place.
func (h *MessageHandler) Delete(c echo.Context) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	msg, conv, err := h.messageForParticipant(c, user.ID)
	if err != nil {
		return err
	}

	if _, err := h.conversations.SoftDeleteMessage(msg.ID, user.ID); err != nil {
		if errors.Is(err, repositories.ErrForbidden) {
			return echo.NewHTTPError(http.StatusForbidden, "Only the sender can delete a message")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete message")
	}

	h.dispatcher.SendToUser(conv.Counterpart(user.ID), realtime.EventDeletedMessage,
		realtime.DeletedMessagePayload{MessageID: msg.ID})

	return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

// messageForParticipant loads the addressed message and checks the
// caller belongs to its conversation.
func (h *MessageHandler) messageForParticipant(c echo.Context, userID uint) (*models.Message, *models.Conversation, error) {
	msgID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid message id")
	}

	msg, err := h.conversations.GetMessageByID(uint(msgID))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, echo.NewHTTPError(http.StatusNotFound, "Message not found")
		}
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to load message")
	}

	conv, err := h.conversations.GetByPair(msg.SenderID, msg.ReceiverID)
	if err != nil {
		return nil, nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to load conversation")
	}
	if !conv.HasParticipant(userID) {
		return nil, nil, echo.NewHTTPError(http.StatusForbidden, "Not a participant of this conversation")
	}
	return msg, conv, nil
}

func (h *MessageHandler) targetUserID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}
	return uint(id), nil
}
