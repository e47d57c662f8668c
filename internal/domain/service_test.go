package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/extracurricular/internal/events"
)

func TestSignupRecordsJoinedEvent(t *testing.T) {
	dir := &stubDirectory{updated: Activity{
		Description:     "Strategy practice and tournaments",
		Schedule:        "Fridays, 3:30 PM - 5:00 PM",
		MaxParticipants: 12,
		Participants:    []string{"michael@mergington.edu", "eve@mergington.edu"},
	}}
	recorder := &recordingFeed{}
	service := NewService(dir, recorder)

	err := service.Signup(context.Background(), "Chess Club", "eve@mergington.edu")
	require.NoError(t, err)
	require.Equal(t, "Chess Club", dir.lastActivity)
	require.Equal(t, "eve@mergington.edu", dir.lastEmail)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	require.Equal(t, "roster.participant_joined", rec.eventType)
	require.Equal(t, "Chess Club", rec.partitionKey)

	payload, ok := rec.payload.(events.ParticipantJoined)
	require.True(t, ok)
	require.NotEmpty(t, payload.EventID)
	require.Equal(t, "Chess Club", payload.Activity)
	require.Equal(t, "eve@mergington.edu", payload.Email)
	require.Equal(t, 10, payload.SpotsLeft)
	require.False(t, payload.OccurredAt.IsZero())
}

func TestSignupFailureRecordsNothing(t *testing.T) {
	dir := &stubDirectory{err: ErrActivityFull}
	recorder := &recordingFeed{}
	service := NewService(dir, recorder)

	err := service.Signup(context.Background(), "Chess Club", "late@mergington.edu")
	require.ErrorIs(t, err, ErrActivityFull)
	require.Empty(t, recorder.records)
}

func TestUnregisterRecordsLeftEvent(t *testing.T) {
	dir := &stubDirectory{updated: Activity{
		MaxParticipants: 12,
		Participants:    []string{"michael@mergington.edu"},
	}}
	recorder := &recordingFeed{}
	service := NewService(dir, recorder)

	err := service.Unregister(context.Background(), "Chess Club", "daniel@mergington.edu")
	require.NoError(t, err)

	require.Len(t, recorder.records, 1)
	rec := recorder.records[0]
	require.Equal(t, "roster.participant_left", rec.eventType)
	require.Equal(t, "Chess Club", rec.partitionKey)

	payload, ok := rec.payload.(events.ParticipantLeft)
	require.True(t, ok)
	require.Equal(t, "daniel@mergington.edu", payload.Email)
	require.Equal(t, 11, payload.SpotsLeft)
}

func TestUnregisterFailureRecordsNothing(t *testing.T) {
	dir := &stubDirectory{err: ErrNotRegistered}
	recorder := &recordingFeed{}
	service := NewService(dir, recorder)

	err := service.Unregister(context.Background(), "Chess Club", "ghost@mergington.edu")
	require.ErrorIs(t, err, ErrNotRegistered)
	require.Empty(t, recorder.records)
}

func TestNewServiceDefaultsRecorder(t *testing.T) {
	dir := &stubDirectory{updated: Activity{MaxParticipants: 2}}
	service := NewService(dir, nil)

	require.NoError(t, service.Signup(context.Background(), "Chess Club", "solo@mergington.edu"))
}

type stubDirectory struct {
	updated      Activity
	err          error
	lastActivity string
	lastEmail    string
}

func (s *stubDirectory) List(context.Context) (map[string]Activity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string]Activity{}, nil
}

func (s *stubDirectory) Signup(_ context.Context, activity, email string) (Activity, error) {
	s.lastActivity = activity
	s.lastEmail = email
	if s.err != nil {
		return Activity{}, s.err
	}
	return s.updated, nil
}

func (s *stubDirectory) Unregister(_ context.Context, activity, email string) (Activity, error) {
	s.lastActivity = activity
	s.lastEmail = email
	if s.err != nil {
		return Activity{}, s.err
	}
	return s.updated, nil
}

type recordedEvent struct {
	eventType    string
	partitionKey string
	payload      any
}

type recordingFeed struct {
	records []recordedEvent
}

func (r *recordingFeed) Record(_ context.Context, eventType, partitionKey string, payload any) {
	r.records = append(r.records, recordedEvent{
		eventType:    eventType,
		partitionKey: partitionKey,
		payload:      payload,
	})
}
