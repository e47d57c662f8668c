// Package events defines roster feed event payloads.
package events

import "time"

// ParticipantJoined represents the message emitted when a student signs up for an activity.
type ParticipantJoined struct {
	EventID    string    `json:"event_id"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	SpotsLeft  int       `json:"spots_left"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ParticipantLeft represents the message emitted when a student is removed from a roster.
type ParticipantLeft struct {
	EventID    string    `json:"event_id"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	SpotsLeft  int       `json:"spots_left"`
	OccurredAt time.Time `json:"occurred_at"`
}
