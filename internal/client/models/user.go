package models

import (
	"strings"
	"time"
)

// User is the full profile of the authenticated account, as returned by
// /api/users/me. HouseholdID is nil until the user creates or joins
// a household.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        *string   `json:"name"`
	AvatarColor string    `json:"avatar_color"`
	HouseholdID *string   `json:"household_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserBrief is the denormalized id/name/color projection embedded in task
// and household payloads.
type UserBrief struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	AvatarColor string  `json:"avatar_color"`
}

// DisplayName returns the profile name, falling back to the local part of
// the email when no name has been set yet.
func (u User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

func (b UserBrief) DisplayName() string {
	if b.Name != nil && *b.Name != "" {
		return *b.Name
	}
	return "Partner"
}
