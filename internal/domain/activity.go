// Package domain defines the business logic for the extracurricular service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"example.com/extracurricular/internal/events"
	"example.com/extracurricular/internal/feed"
	"example.com/extracurricular/internal/observability"
)

var (
	// ErrActivityNotFound is returned when an activity cannot be located.
	ErrActivityNotFound = errors.New("activity not found")
	// ErrDuplicateSignup indicates the email is already on the roster.
	ErrDuplicateSignup = errors.New("student is already signed up")
	// ErrActivityFull indicates the activity reached its participant limit.
	ErrActivityFull = errors.New("activity is full")
	// ErrNotRegistered indicates the email is not on the roster.
	ErrNotRegistered = errors.New("student is not registered for this activity")
)

// Activity describes an extracurricular offering with a bounded roster.
// The activity name is the directory key and is not repeated in the record.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft reports remaining roster capacity.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// Directory exposes roster storage operations. Participant emails are
// compared as exact strings: case and whitespace variants are distinct
// registrants.
type Directory interface {
	List(ctx context.Context) (map[string]Activity, error)
	Signup(ctx context.Context, activity, email string) (Activity, error)
	Unregister(ctx context.Context, activity, email string) (Activity, error)
}

// Service orchestrates roster changes.
type Service struct {
	directory Directory
	feed      feed.Recorder
}

// NewService constructs a Service.
func NewService(directory Directory, recorder feed.Recorder) *Service {
	if recorder == nil {
		recorder = feed.NoopRecorder{}
	}
	return &Service{directory: directory, feed: recorder}
}

// ListActivities returns a snapshot of every activity keyed by name.
func (s *Service) ListActivities(ctx context.Context) (map[string]Activity, error) {
	return s.directory.List(ctx)
}

// Signup registers the email for the activity.
func (s *Service) Signup(ctx context.Context, activity, email string) error {
	updated, err := s.directory.Signup(ctx, activity, email)
	if err != nil {
		observability.RecordRejection("signup", rejectionReason(err))
		return err
	}

	now := time.Now().UTC()
	observability.RecordSignup(activity, updated.SpotsLeft(), now)
	s.feed.Record(ctx, "roster.participant_joined", activity, events.ParticipantJoined{
		EventID:    uuid.NewString(),
		Activity:   activity,
		Email:      email,
		SpotsLeft:  updated.SpotsLeft(),
		OccurredAt: now,
	})
	return nil
}

// Unregister removes the email from the activity roster.
func (s *Service) Unregister(ctx context.Context, activity, email string) error {
	updated, err := s.directory.Unregister(ctx, activity, email)
	if err != nil {
		observability.RecordRejection("unregister", rejectionReason(err))
		return err
	}

	now := time.Now().UTC()
	observability.RecordUnregister(activity, updated.SpotsLeft(), now)
	s.feed.Record(ctx, "roster.participant_left", activity, events.ParticipantLeft{
		EventID:    uuid.NewString(),
		Activity:   activity,
		Email:      email,
		SpotsLeft:  updated.SpotsLeft(),
		OccurredAt: now,
	})
	return nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrActivityNotFound):
		return "not_found"
	case errors.Is(err, ErrDuplicateSignup):
		return "duplicate"
	case errors.Is(err, ErrActivityFull):
		return "full"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	default:
		return "error"
	}
}
