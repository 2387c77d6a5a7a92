package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudro-dev/loopgram/backend/internal/models"
)

func TestCreateManyUsersWithoutFirebaseUID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	// Local accounts carry no Firebase identity; the unique index must
	// not treat their absent UIDs as colliding values.
	for _, handle := range []string{"alice", "bob", "carol"} {
		require.NoError(t, repo.CreateUser(&models.User{
			Name:     "Test " + handle,
			UserName: handle,
			Email:    handle + "@example.com",
		}))
	}

	uid := "firebase-uid-1"
	require.NoError(t, repo.CreateUser(&models.User{
		Name:        "Test dave",
		UserName:    "dave",
		Email:       "dave@example.com",
		FirebaseUID: &uid,
	}))

	// A duplicate Firebase UID is still rejected.
	err := repo.CreateUser(&models.User{
		Name:        "Test eve",
		UserName:    "eve",
		Email:       "eve@example.com",
		FirebaseUID: &uid,
	})
	assert.Error(t, err)

	found, err := repo.GetUserByFirebaseUID(uid)
	require.NoError(t, err)
	assert.Equal(t, "dave", found.UserName)
}

func TestStoryRefIsClearConditional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	alice := createTestUser(t, db, "alice")

	oldStory := "64f000000000000000000001"
	newStory := "64f000000000000000000002"

	require.NoError(t, repo.SetStoryRef(alice.ID, oldStory))

	// Replace-on-create moved the reference; a late sweep of the old
	// story must not clear the new one.
	require.NoError(t, repo.SetStoryRef(alice.ID, newStory))
	require.NoError(t, repo.ClearStoryRef(alice.ID, oldStory))

	user, err := repo.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, newStory, user.StoryID)

	// Clearing with the current id works.
	require.NoError(t, repo.ClearStoryRef(alice.ID, newStory))
	user, err = repo.GetUserByID(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, user.StoryID)
}

func TestUserLookupsTranslateNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)

	_, err := repo.GetUserByID(42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetUserByUserName("ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetUserByEmail("ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchUsersMatchesNameAndHandle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")

	results, err := repo.SearchUsers("ali")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice", results[0].UserName)

	// Display names match too; createTestUser names users "Test <handle>".
	results, err = repo.SearchUsers("test")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSuggestedUsersExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresUserRepository(db)
	alice := createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")
	createTestUser(t, db, "carol")

	suggestions, err := repo.SuggestedUsers(alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	for _, u := range suggestions {
		assert.NotEqual(t, alice.ID, u.ID)
	}
}
