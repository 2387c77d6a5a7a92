package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is the account record stored in PostgreSQL. The relational side of the
// social graph (follows, saves) lives in its own tables; StoryID is the
// back-reference to the user's single active story document in MongoDB.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name"`
	UserName string `json:"user_name" gorm:"uniqueIndex"`
	Email    string `json:"email" gorm:"uniqueIndex"`
	Password string `json:"-"` // bcrypt hash, never serialized
	// Nullable so local accounts (no Firebase identity) don't collide on
	// the unique index; empty string is a value, NULL is not.
	FirebaseUID  *string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"`
	Bio          string    `json:"bio,omitempty"`
	Profession   string    `json:"profession,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	StoryID      string    `json:"story_id,omitempty"` // active story ObjectID hex, empty when absent
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the hydrated author/participant shape embedded in read views
// (posts, comments, notifications, story viewers).
type UserSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	UserName     string `json:"user_name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Summary projects a User onto its read-view shape.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Name:         u.Name,
		UserName:     u.UserName,
		ProfileImage: u.ProfileImage,
	}
}

type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	UserName    string `json:"user_name" validate:"required,min=2,max=30"`
	Email       string `json:"email" validate:"required,email"`
	FirebaseUID string `json:"firebase_uid" validate:"required"` // issued by Firebase Auth on the client
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	UserName string `json:"user_name" validate:"required,min=2,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name         string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	UserName     string `json:"user_name,omitempty" validate:"omitempty,min=2,max=30"`
	Bio          string `json:"bio,omitempty" validate:"omitempty,max=200"`
	Profession   string `json:"profession,omitempty" validate:"omitempty,max=100"`
	Gender       string `json:"gender,omitempty" validate:"omitempty,max=30"`
	ProfileImage string `json:"profile_image,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
