package entity

import (
	"strings"
	"time"
)

type User struct {
	ID           string `json:"id" firestore:"id"`
	Email        string `json:"email" firestore:"email"`
	FirstName    string `json:"first_name" firestore:"firstName"`
	LastName     string `json:"last_name" firestore:"lastName"`
	Phone        string `json:"phone" firestore:"phone"`
	ProfileURL   string `json:"profile_url,omitempty" firestore:"profileUrl,omitempty"`
	PasswordHash string `json:"-" firestore:"passwordHash"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

// Snapshot copies the profile fields a roster keeps. The copy is not
// refreshed when the user later edits their profile.
func (u *User) Snapshot() PlayerSnapshot {
	return PlayerSnapshot{
		ID:         u.ID,
		Name:       u.FullName(),
		Phone:      u.Phone,
		ProfileURL: u.ProfileURL,
	}
}
