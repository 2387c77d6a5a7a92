package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rudro-dev/loopgram/backend/internal/models"
)

func TestToggleFollowLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	// First toggle turns the edge on.
	following, err := repo.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	isFollowing, err := repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, isFollowing)

	// The edge is directional.
	isFollowing, err = repo.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)

	// Second toggle turns it back off.
	following, err = repo.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	isFollowing, err = repo.IsFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)

	// A full on-off cycle leaves no rows behind.
	count, err := repo.GetFollowersCount(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestToggleFollowRepeatedCycles(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	for i := 0; i < 3; i++ {
		following, err := repo.ToggleFollow(alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		following, err = repo.ToggleFollow(alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, following)
	}

	count, err := repo.GetFollowersCount(bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDuplicateFollowEdgeIsTranslated(t *testing.T) {
	db := setupTestDB(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	require.NoError(t, db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)

	// The toggle's race-recovery branch matches gorm.ErrDuplicatedKey,
	// so the driver's unique-violation error must translate to it.
	err := db.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFollowListsAndCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	carol := createTestUser(t, db, "carol")

	_, err := repo.ToggleFollow(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = repo.ToggleFollow(alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = repo.ToggleFollow(carol.ID, bob.ID)
	require.NoError(t, err)

	following, err := repo.GetFollowing(alice.ID)
	require.NoError(t, err)
	assert.Len(t, following, 2)

	followers, err := repo.GetFollowers(bob.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	ids, err := repo.GetFollowingIDs(alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)

	followersCount, err := repo.GetFollowersCount(bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followersCount)

	followingCount, err := repo.GetFollowingCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followingCount)
}
