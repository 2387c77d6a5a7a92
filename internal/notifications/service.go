package notifications

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/realtime"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
	"github.com/rudro-dev/loopgram/backend/pkg/logger"
)

// Dispatcher is the targeted-delivery surface the service needs from
// the realtime layer.
type Dispatcher interface {
	SendToUser(userID uint, event string, payload interface{})
}

// Service persists notifications and pushes them to the receiver when
// they are online. All entry points are fire and forget: a failure here
// never rolls back the interaction that triggered it, it is only
// logged.
//
// Two rules gate every notification. Self-actions are never notified,
// and toggles notify only on the transition into the "on" state, so
// un-doing or repeating an action stays silent.
type Service struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	dispatcher    Dispatcher
}

func NewService(notifications repositories.NotificationRepository, users repositories.UserRepository, dispatcher Dispatcher) *Service {
	return &Service{
		notifications: notifications,
		users:         users,
		dispatcher:    dispatcher,
	}
}

// NotifyLike records a like notification for the content author. liked
// is the post-toggle state; an unlike never notifies.
func (s *Service) NotifyLike(senderID uint, kind string, content *models.Content, liked bool) {
	if !liked || senderID == content.AuthorID {
		return
	}
	s.emit(&models.Notification{
		Type:       models.NotificationTypeLike,
		SenderID:   senderID,
		ReceiverID: content.AuthorID,
		TargetID:   content.ID.Hex(),
		TargetType: targetTypeFor(kind),
		Message:    "liked your " + kind,
	}, content)
}

// NotifyComment records a comment notification for the content author.
func (s *Service) NotifyComment(senderID uint, kind string, content *models.Content) {
	if senderID == content.AuthorID {
		return
	}
	s.emit(&models.Notification{
		Type:       models.NotificationTypeComment,
		SenderID:   senderID,
		ReceiverID: content.AuthorID,
		TargetID:   content.ID.Hex(),
		TargetType: targetTypeFor(kind),
		Message:    "commented on your " + kind,
	}, content)
}

func targetTypeFor(kind string) string {
	if kind == models.ContentKindLoop {
		return models.TargetTypeLoop
	}
	return models.TargetTypePost
}

// NotifyFollow records a follow notification. followed is the
// post-toggle state; an unfollow never notifies.
func (s *Service) NotifyFollow(senderID, receiverID uint, followed bool, senderUserName string) {
	if !followed || senderID == receiverID {
		return
	}
	s.emit(&models.Notification{
		Type:       models.NotificationTypeFollow,
		SenderID:   senderID,
		ReceiverID: receiverID,
		TargetID:   senderUserName,
		TargetType: models.TargetTypeUser,
		Message:    "started following you",
	}, nil)
}

// NotifyMessageReaction tells a message's sender that someone reacted.
// Reacting to your own message stays silent.
func (s *Service) NotifyMessageReaction(reactorID uint, msg *models.Message) {
	if reactorID == msg.SenderID {
		return
	}
	s.emit(&models.Notification{
		Type:       models.NotificationTypeMessageReaction,
		SenderID:   reactorID,
		ReceiverID: msg.SenderID,
		TargetID:   strconv.FormatUint(uint64(msg.ID), 10),
		TargetType: models.TargetTypeMessage,
		Message:    "reacted to your message",
	}, nil)
}

// CleanupForTarget removes every notification pointing at a deleted
// content item so feeds never link to a dead target.
func (s *Service) CleanupForTarget(targetType, targetID string) {
	if err := s.notifications.DeleteByTarget(targetType, targetID); err != nil {
		logger.Log.Error("failed to clean up notifications for deleted target",
			zap.String("target_type", targetType),
			zap.String("target_id", targetID),
			zap.Error(err))
	}
}

func (s *Service) emit(n *models.Notification, content *models.Content) {
	if err := s.notifications.CreateNotification(n); err != nil {
		logger.Log.Error("failed to persist notification",
			zap.String("type", n.Type),
			zap.Uint("sender_id", n.SenderID),
			zap.Uint("receiver_id", n.ReceiverID),
			zap.Error(err))
		return
	}

	s.hydrate(n)
	n.Content = content
	s.dispatcher.SendToUser(n.ReceiverID, realtime.EventNewNotification, n)

	logger.Log.Debug("notification emitted",
		zap.String("type", n.Type),
		zap.Uint("sender_id", n.SenderID),
		zap.Uint("receiver_id", n.ReceiverID))
}

func (s *Service) hydrate(n *models.Notification) {
	users, err := s.users.GetUsersByIDs([]uint{n.SenderID, n.ReceiverID})
	if err != nil {
		logger.Log.Warn("failed to hydrate notification users", zap.Error(err))
		return
	}
	for i := range users {
		summary := users[i].Summary()
		if users[i].ID == n.SenderID {
			n.Sender = &summary
		}
		if users[i].ID == n.ReceiverID {
			n.Receiver = &summary
		}
	}
}
