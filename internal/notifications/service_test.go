package notifications

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rudro-dev/loopgram/backend/internal/models"
	"github.com/rudro-dev/loopgram/backend/internal/realtime"
	"github.com/rudro-dev/loopgram/backend/internal/repositories"
)

type sentEvent struct {
	userID uint
	event  string
}

type recordingDispatcher struct {
	sent []sentEvent
}

func (d *recordingDispatcher) SendToUser(userID uint, event string, payload interface{}) {
	d.sent = append(d.sent, sentEvent{userID: userID, event: event})
}

func setupService(t *testing.T) (*Service, *recordingDispatcher, repositories.NotificationRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Notification{}))

	dispatcher := &recordingDispatcher{}
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	svc := NewService(notificationRepo, repositories.NewPostgresUserRepository(db), dispatcher)
	return svc, dispatcher, notificationRepo, db
}

func createUser(t *testing.T, db *gorm.DB, userName string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test " + userName, UserName: userName, Email: userName + "@example.com"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestNotifyLikeSkipsSelfAction(t *testing.T) {
	svc, dispatcher, repo, db := setupService(t)
	alice := createUser(t, db, "alice")

	content := &models.Content{ID: primitive.NewObjectID(), AuthorID: alice.ID}
	svc.NotifyLike(alice.ID, models.ContentKindPost, content, true)

	count, err := repo.GetUnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, dispatcher.sent)
}

func TestNotifyLikeOnlyOnTransitionToLiked(t *testing.T) {
	svc, dispatcher, repo, db := setupService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	content := &models.Content{ID: primitive.NewObjectID(), AuthorID: bob.ID}

	// Unlike stays silent.
	svc.NotifyLike(alice.ID, models.ContentKindPost, content, false)
	assert.Empty(t, dispatcher.sent)

	// The off-to-on transition notifies the author.
	svc.NotifyLike(alice.ID, models.ContentKindPost, content, true)

	count, err := repo.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, bob.ID, dispatcher.sent[0].userID)
	assert.Equal(t, realtime.EventNewNotification, dispatcher.sent[0].event)
}

func TestNotifyFollowRespectsToggleState(t *testing.T) {
	svc, dispatcher, repo, db := setupService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	svc.NotifyFollow(alice.ID, bob.ID, false, alice.UserName)
	assert.Empty(t, dispatcher.sent)

	svc.NotifyFollow(alice.ID, bob.ID, true, alice.UserName)

	items, total, err := repo.GetByReceiverID(bob.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, models.NotificationTypeFollow, items[0].Type)
	assert.Equal(t, alice.ID, items[0].SenderID)
}

func TestNotifyMessageReactionSkipsOwnMessage(t *testing.T) {
	svc, dispatcher, repo, db := setupService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	ownMsg := &models.Message{ID: 1, SenderID: alice.ID, ReceiverID: bob.ID, Reaction: "👍"}
	svc.NotifyMessageReaction(alice.ID, ownMsg)
	assert.Empty(t, dispatcher.sent)

	theirMsg := &models.Message{ID: 2, SenderID: bob.ID, ReceiverID: alice.ID, Reaction: "👍"}
	svc.NotifyMessageReaction(alice.ID, theirMsg)

	count, err := repo.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, dispatcher.sent, 1)
	assert.Equal(t, bob.ID, dispatcher.sent[0].userID)
}

func TestCleanupForTargetRemovesNotifications(t *testing.T) {
	svc, _, repo, db := setupService(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	content := &models.Content{ID: primitive.NewObjectID(), AuthorID: bob.ID}
	svc.NotifyLike(alice.ID, models.ContentKindPost, content, true)

	svc.CleanupForTarget(models.TargetTypePost, content.ID.Hex())

	count, err := repo.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
