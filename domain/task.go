package domain

import (
	"strings"
	"time"
)

// Task statuses.
const (
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskOverdue    = "overdue"
)

// Task represents a user-owned activity item.
type Task struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"account_id"`
	Name        string     `json:"name"`
	Category    string     `json:"category,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notify      bool       `json:"notify"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskCompleted
}

// Reward holds the payout applied when a task of a given priority completes.
type Reward struct {
	XP    int
	Coins int
}

// RewardFor maps a task priority to its payout. Priority comparison is
// case-insensitive; unknown priorities pay nothing.
func RewardFor(priority string) Reward {
	switch strings.ToLower(priority) {
	case "low":
		return Reward{XP: 3, Coins: 10}
	case "medium":
		return Reward{XP: 5, Coins: 20}
	case "high":
		return Reward{XP: 10, Coins: 30}
	default:
		return Reward{}
	}
}

// PriorityEquals reports whether two priorities match ignoring case.
func PriorityEquals(a, b string) bool {
	return strings.EqualFold(a, b)
}
