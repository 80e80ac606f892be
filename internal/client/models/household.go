package models

import "time"

// Household is the sharing group that owns a set of tasks. InviteCode is the
// six-character uppercase code other users join with.
type Household struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	InviteCode string      `json:"invite_code"`
	CreatedAt  time.Time   `json:"created_at"`
	Members    []UserBrief `json:"members"`
}
