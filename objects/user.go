package objects

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered marketplace user. Identity verification is
// external; this record is what the marketplace itself knows about a user.
type User struct {
	ID        string
	Email     string
	Nickname  string
	AvatarURL string
	CreatedAt time.Time
}

// NewUser creates a user record from verified identity data
func NewUser(email, nickname, avatarURL string) *User {
	return &User{
		ID:        uuid.NewString(),
		Email:     email,
		Nickname:  nickname,
		AvatarURL: avatarURL,
		CreatedAt: time.Now().UTC(),
	}
}
