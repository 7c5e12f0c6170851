package transport

import (
	"time"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type FollowRequest struct {
	Username string `json:"username"`
}

type HealthActionRequest struct {
	Action string `json:"action"`
}

type OutfitRequest struct {
	OutfitID int `json:"outfit_id"`
}

type TaskRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Deadline string `json:"deadline"`
	Priority string `json:"priority"`
	Notify   bool   `json:"notify"`
}

// deadline accepts either a bare date or a full timestamp.
var deadlineLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDeadline parses an optional task deadline. An empty string yields nil.
func ParseDeadline(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	for _, layout := range deadlineLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			ts = ts.UTC()
			return &ts, true
		}
	}
	return nil, false
}
