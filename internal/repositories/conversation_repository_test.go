package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudro-dev/loopgram/backend/internal/models"
)

func TestResolveOrCreateIsDirectionless(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	first, err := repo.ResolveOrCreate(bob.ID, alice.ID)
	require.NoError(t, err)

	second, err := repo.ResolveOrCreate(alice.ID, bob.ID)
	require.NoError(t, err)

	// Both directions resolve to the same thread.
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.HasParticipant(alice.ID))
	assert.True(t, first.HasParticipant(bob.ID))

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAppendMessagePreservesLogOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conv, err := repo.ResolveOrCreate(alice.ID, bob.ID)
	require.NoError(t, err)

	texts := []string{"hey", "how are you", "see you later"}
	for _, text := range texts {
		msg := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Text: text}
		require.NoError(t, repo.AppendMessage(conv, msg))
	}

	messages, err := repo.GetMessages(conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i, msg := range messages {
		assert.Equal(t, texts[i], msg.Text)
	}
}

func TestSoftDeleteHidesMessageButKeepsRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conv, err := repo.ResolveOrCreate(alice.ID, bob.ID)
	require.NoError(t, err)

	first := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Text: "first"}
	require.NoError(t, repo.AppendMessage(conv, first))
	second := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Text: "second"}
	require.NoError(t, repo.AppendMessage(conv, second))

	deleted, err := repo.SoftDeleteMessage(first.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	// Hidden from the visible log.
	messages, err := repo.GetMessages(conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "second", messages[0].Text)

	// But the row survives, so total count is unchanged.
	count, err := repo.CountMessages(conv.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestSoftDeleteIsSenderOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conv, err := repo.ResolveOrCreate(alice.ID, bob.ID)
	require.NoError(t, err)

	msg := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Text: "mine"}
	require.NoError(t, repo.AppendMessage(conv, msg))

	_, err = repo.SoftDeleteMessage(msg.ID, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	messages, err := repo.GetMessages(conv.ID)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestReactionLastWriteWins(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	conv, err := repo.ResolveOrCreate(alice.ID, bob.ID)
	require.NoError(t, err)

	msg := &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Text: "react to me"}
	require.NoError(t, repo.AppendMessage(conv, msg))

	reacted, err := repo.ReactToMessage(msg.ID, "👍")
	require.NoError(t, err)
	assert.Equal(t, "👍", reacted.Reaction)

	reacted, err = repo.ReactToMessage(msg.ID, "❤️")
	require.NoError(t, err)
	assert.Equal(t, "❤️", reacted.Reaction)

	_, err = repo.ReactToMessage(9999, "👍")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListConversationsOrderedByActivity(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresConversationRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	withBob, err := repo.ResolveOrCreate(alice.ID, bob.ID)
	require.NoError(t, err)
	withCarol, err := repo.ResolveOrCreate(alice.ID, carol.ID)
	require.NoError(t, err)

	require.NoError(t, repo.AppendMessage(withBob, &models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Text: "old"}))
	require.NoError(t, repo.AppendMessage(withCarol, &models.Message{SenderID: alice.ID, ReceiverID: carol.ID, Text: "new"}))

	// Force distinct activity timestamps independent of clock resolution.
	require.NoError(t, db.Model(&models.Conversation{}).Where("id = ?", withBob.ID).
		Update("last_message_at", withCarol.LastMessageAt.Add(-time.Second)).Error)

	convs, err := repo.ListConversationsFor(alice.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	assert.Equal(t, withCarol.ID, convs[0].ID)
	assert.Equal(t, withBob.ID, convs[1].ID)
}
