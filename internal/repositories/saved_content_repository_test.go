package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudro-dev/loopgram/backend/internal/models"
)

func TestToggleSaveLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresSavedContentRepository(db)
	alice := createTestUser(t, db, "alice")

	contentID := "64f000000000000000000001"

	saved, err := repo.ToggleSave(alice.ID, contentID, models.ContentKindPost)
	require.NoError(t, err)
	assert.True(t, saved)

	isSaved, err := repo.IsSaved(alice.ID, contentID)
	require.NoError(t, err)
	assert.True(t, isSaved)

	saved, err = repo.ToggleSave(alice.ID, contentID, models.ContentKindPost)
	require.NoError(t, err)
	assert.False(t, saved)

	isSaved, err = repo.IsSaved(alice.ID, contentID)
	require.NoError(t, err)
	assert.False(t, isSaved)
}

func TestSavesAreScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresSavedContentRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	contentID := "64f000000000000000000001"

	_, err := repo.ToggleSave(alice.ID, contentID, models.ContentKindPost)
	require.NoError(t, err)

	isSaved, err := repo.IsSaved(bob.ID, contentID)
	require.NoError(t, err)
	assert.False(t, isSaved)
}

func TestGetSavedByUserKeepsKinds(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresSavedContentRepository(db)
	alice := createTestUser(t, db, "alice")

	_, err := repo.ToggleSave(alice.ID, "64f000000000000000000001", models.ContentKindPost)
	require.NoError(t, err)
	_, err = repo.ToggleSave(alice.ID, "64f000000000000000000002", models.ContentKindLoop)
	require.NoError(t, err)

	saves, err := repo.GetSavedByUser(alice.ID)
	require.NoError(t, err)
	require.Len(t, saves, 2)

	kinds := map[string]string{}
	for _, s := range saves {
		kinds[s.ContentID] = s.Kind
	}
	assert.Equal(t, models.ContentKindPost, kinds["64f000000000000000000001"])
	assert.Equal(t, models.ContentKindLoop, kinds["64f000000000000000000002"])
}
