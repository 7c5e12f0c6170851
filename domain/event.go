package domain

import "time"

// Event is a time-boxed competition ranking users by completed tasks.
// IsActive flips to false exactly once, when the event is closed.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	RewardCoins int       `json:"reward_coins"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasEnded reports whether the event window has elapsed.
func (e *Event) HasEnded(now time.Time) bool {
	return e != nil && !now.Before(e.EndsAt)
}

// InWindow reports whether the instant falls inside [StartsAt, EndsAt).
func (e *Event) InWindow(now time.Time) bool {
	if e == nil {
		return false
	}
	return !now.Before(e.StartsAt) && now.Before(e.EndsAt)
}

// LeaderboardEntry is one ranked row of an event leaderboard.
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Completed int    `json:"completed"`
}
