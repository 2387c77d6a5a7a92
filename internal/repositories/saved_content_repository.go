package repositories

import (
	"errors"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"gorm.io/gorm"
)

// SavedContentRepository defines the interface for bookmark operations
type SavedContentRepository interface {
	ToggleSave(userID uint, contentID, kind string) (bool, error)
	IsSaved(userID uint, contentID string) (bool, error)
	GetSavedByUser(userID uint) ([]models.SavedContent, error)
}

// PostgresSavedContentRepository implements SavedContentRepository
type PostgresSavedContentRepository struct {
	db *gorm.DB
}

func NewPostgresSavedContentRepository(db *gorm.DB) *PostgresSavedContentRepository {
	return &PostgresSavedContentRepository{db: db}
}

// ToggleSave flips the bookmark for (userID, contentID) and returns the
// resulting state (true = now saved). Same shape as the follow toggle: one
// transaction, unique index as the at-most-once guard.
func (r *PostgresSavedContentRepository) ToggleSave(userID uint, contentID, kind string) (bool, error) {
	var saved bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND content_id = ?", userID, contentID).
			Delete(&models.SavedContent{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			saved = false
			return nil
		}
		if err := tx.Create(&models.SavedContent{UserID: userID, ContentID: contentID, Kind: kind}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				saved = true
				return nil
			}
			return err
		}
		saved = true
		return nil
	})
	return saved, err
}

func (r *PostgresSavedContentRepository) IsSaved(userID uint, contentID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedContent{}).Where("user_id = ? AND content_id = ?", userID, contentID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresSavedContentRepository) GetSavedByUser(userID uint) ([]models.SavedContent, error) {
	var saved []models.SavedContent
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&saved).Error
	return saved, err
}
