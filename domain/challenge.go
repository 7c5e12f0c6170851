package domain

import "time"

// Weekly challenge parameters.
const (
	ChallengeReward       = 20
	ChallengeTaskCountMin = 15
	ChallengeTaskCountMax = 30
)

// ChallengePriorities are the priorities a weekly challenge may demand.
var ChallengePriorities = []string{"Low", "Medium", "High"}

// WeeklyChallenge is the shared challenge every team competes on during one
// calendar week. Challenges are keyed by their week start rather than by
// window containment so the same week can never hold two rows.
type WeeklyChallenge struct {
	ID        string    `json:"id"`
	WeekStart time.Time `json:"start_date"`
	Deadline  time.Time `json:"deadline"`
	TaskCount int       `json:"task_count"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
}

// Contains reports whether the instant falls inside the challenge window.
func (c *WeeklyChallenge) Contains(t time.Time) bool {
	if c == nil {
		return false
	}
	return !t.Before(c.WeekStart) && !t.After(c.Deadline)
}

// ChallengeParticipation records one account joining one weekly challenge.
// RewardClaimed flips exactly once, when the team first meets its target.
type ChallengeParticipation struct {
	ID            string    `json:"id"`
	ChallengeID   string    `json:"challenge_id"`
	AccountID     string    `json:"account_id"`
	RewardClaimed bool      `json:"reward_claimed"`
	JoinedAt      time.Time `json:"joined_at"`
}

// WeekWindow returns the Sunday 00:00:00 UTC start and Saturday 23:59:59 UTC
// deadline of the week containing the given instant.
func WeekWindow(now time.Time) (start, deadline time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start = start.AddDate(0, 0, -int(now.Weekday()))
	deadline = start.AddDate(0, 0, 7).Add(-time.Second)
	return start, deadline
}
