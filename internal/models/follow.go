package models

import "time"

// Follow is one edge of the follow graph. A single row is both sides of the
// relationship, FollowerID's "following" membership and FollowingID's
// "followers" membership, so the two views can never disagree. The composite
// unique index keeps each edge at most once.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
