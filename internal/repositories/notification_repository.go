package repositories

import (
	"github.com/rudro-dev/loopgram/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByReceiverID(receiverID uint, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(receiverID uint) (int64, error)
	MarkAsRead(receiverID uint, notificationIDs []uint) error
	DeleteNotification(receiverID, notificationID uint) error
	DeleteByTarget(targetType, targetID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByReceiverID(receiverID uint, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.db.Model(&models.Notification{}).Where("receiver_id = ?", receiverID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.Where("receiver_id = ?", receiverID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(receiverID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("receiver_id = ? AND is_read = ?", receiverID, false).Count(&count).Error
	return count, err
}

// MarkAsRead flips the read flag on the given notifications. Scoped to the
// receiver: ids belonging to other users are silently skipped.
func (r *postgresNotificationRepository) MarkAsRead(receiverID uint, notificationIDs []uint) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("id IN ? AND receiver_id = ?", notificationIDs, receiverID).
		Update("is_read", true).Error
}

// DeleteNotification removes one notification; only the owning receiver may
// delete it.
func (r *postgresNotificationRepository) DeleteNotification(receiverID, notificationID uint) error {
	var notification models.Notification
	if err := r.db.First(&notification, notificationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	if notification.ReceiverID != receiverID {
		return ErrForbidden
	}
	return r.db.Delete(&notification).Error
}

// DeleteByTarget removes every notification referencing a target, used when
// the referenced content item is deleted so no dangling references survive.
func (r *postgresNotificationRepository) DeleteByTarget(targetType, targetID string) error {
	return r.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Delete(&models.Notification{}).Error
}
