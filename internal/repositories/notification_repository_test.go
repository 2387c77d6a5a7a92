package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudro-dev/loopgram/backend/internal/models"
)

func createTestNotification(t *testing.T, repo NotificationRepository, senderID, receiverID uint, targetID string) *models.Notification {
	t.Helper()

	n := &models.Notification{
		Type:       models.NotificationTypeLike,
		SenderID:   senderID,
		ReceiverID: receiverID,
		TargetID:   targetID,
		TargetType: models.TargetTypePost,
		Message:    "liked your post",
	}
	require.NoError(t, repo.CreateNotification(n))
	return n
}

func TestMarkAsReadIsReceiverScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	forBob := createTestNotification(t, repo, alice.ID, bob.ID, "64f000000000000000000001")
	forCarol := createTestNotification(t, repo, alice.ID, carol.ID, "64f000000000000000000002")

	// Bob marks both ids; only his own row flips.
	require.NoError(t, repo.MarkAsRead(bob.ID, []uint{forBob.ID, forCarol.ID}))

	bobUnread, err := repo.GetUnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, bobUnread)

	carolUnread, err := repo.GetUnreadCount(carol.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, carolUnread)
}

func TestDeleteNotificationOwnership(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	n := createTestNotification(t, repo, alice.ID, bob.ID, "64f000000000000000000001")

	err := repo.DeleteNotification(alice.ID, n.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, repo.DeleteNotification(bob.ID, n.ID))

	err = repo.DeleteNotification(bob.ID, n.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetByReceiverIDPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 5; i++ {
		createTestNotification(t, repo, alice.ID, bob.ID, "64f00000000000000000000"+string(rune('1'+i)))
	}

	page1, total, err := repo.GetByReceiverID(bob.ID, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page1, 2)

	page3, total, err := repo.GetByReceiverID(bob.ID, 3, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page3, 1)
}

func TestDeleteByTargetRemovesAllReferences(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	deletedTarget := "64f000000000000000000001"
	createTestNotification(t, repo, alice.ID, bob.ID, deletedTarget)
	createTestNotification(t, repo, carol.ID, bob.ID, deletedTarget)
	kept := createTestNotification(t, repo, alice.ID, bob.ID, "64f000000000000000000002")

	require.NoError(t, repo.DeleteByTarget(models.TargetTypePost, deletedTarget))

	remaining, total, err := repo.GetByReceiverID(bob.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}

func TestGetByReceiverIDReportsCountFailure(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresNotificationRepository(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	items, total, err := repo.GetByReceiverID(1, 1, 10)
	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Zero(t, total)
}
