package repositories

import (
	"errors"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUsersByIDs(ids []uint) ([]models.User, error)
	GetUserByUserName(userName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByFirebaseUID(firebaseUID string) (*models.User, error)
	UpdateUser(user *models.User) error
	SetStoryRef(userID uint, storyID string) error
	ClearStoryRef(userID uint, storyID string) error
	SuggestedUsers(excludeUserID uint, limit int) ([]models.User, error)
	SearchUsers(query string) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUsersByIDs(ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) GetUserByUserName(userName string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("user_name = ?", userName).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

// SetStoryRef points the user's active-story back-reference at storyID.
func (r *PostgresUserRepository) SetStoryRef(userID uint, storyID string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Update("story_id", storyID).Error
}

// ClearStoryRef clears the back-reference only while it still points at
// storyID, so an expiry sweep racing a replace-on-create never clobbers the
// newer story's reference.
func (r *PostgresUserRepository) ClearStoryRef(userID uint, storyID string) error {
	return r.db.Model(&models.User{}).
		Where("id = ? AND story_id = ?", userID, storyID).
		Update("story_id", "").Error
}

// SuggestedUsers returns other users for the discovery view.
func (r *PostgresUserRepository) SuggestedUsers(excludeUserID uint, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id <> ?", excludeUserID).Limit(limit).Find(&users).Error
	return users, err
}

// SearchUsers searches for users by handle or display name (case-insensitive)
func (r *PostgresUserRepository) SearchUsers(query string) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"
	err := r.db.Where("LOWER(user_name) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?)", pattern, pattern).Find(&users).Error
	return users, err
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
