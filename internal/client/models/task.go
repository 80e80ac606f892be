package models

import "time"

// Task is a shared to-do item. The backend is authoritative for every field;
// the client never fabricates one locally. ClaimedByUser, CompletedByUser and
// CreatedByUser are denormalized briefs so the UI needs no extra lookups.
//
// A task is active while CompletedBy is unset, and completed once CompletedBy
// and CompletedAt are both set; the backend never sets one without the other.
type Task struct {
	ID          string     `json:"id"`
	HouseholdID string     `json:"household_id"`
	Title       string     `json:"title"`
	ClaimedBy   *string    `json:"claimed_by"`
	CompletedBy *string    `json:"completed_by"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`

	ClaimedByUser   *UserBrief `json:"claimed_by_user"`
	CompletedByUser *UserBrief `json:"completed_by_user"`
	CreatedByUser   *UserBrief `json:"created_by_user"`
}

// Completed reports whether the task carries a full completion record.
func (t Task) Completed() bool {
	return t.CompletedBy != nil && t.CompletedAt != nil
}

// Claimed reports whether any member has claimed the task.
func (t Task) Claimed() bool {
	return t.ClaimedBy != nil
}

// IsClaimedBy reports whether the task is claimed by the given user.
func (t Task) IsClaimedBy(userID string) bool {
	return t.ClaimedBy != nil && *t.ClaimedBy == userID
}

// ClaimedByUser filters tasks claimed by the given user.
// The groupings below are recomputed on every call; the lists are small.
func ClaimedByUser(tasks []Task, userID string) []Task {
	var out []Task
	for _, t := range tasks {
		if t.IsClaimedBy(userID) {
			out = append(out, t)
		}
	}
	return out
}

// Unclaimed filters tasks nobody has claimed yet.
func Unclaimed(tasks []Task) []Task {
	var out []Task
	for _, t := range tasks {
		if !t.Claimed() {
			out = append(out, t)
		}
	}
	return out
}

// ClaimedByOthers filters tasks claimed by somebody other than the given user.
func ClaimedByOthers(tasks []Task, userID string) []Task {
	var out []Task
	for _, t := range tasks {
		if t.Claimed() && !t.IsClaimedBy(userID) {
			out = append(out, t)
		}
	}
	return out
}
