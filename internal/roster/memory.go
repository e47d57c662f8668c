package roster

import (
	"context"
	"slices"
	"sync"

	"example.com/extracurricular/internal/domain"
)

// InMemoryDirectory stores activity rosters in memory for the process lifetime.
type InMemoryDirectory struct {
	mu         sync.RWMutex
	activities map[string]domain.Activity
}

// NewInMemoryDirectory constructs a directory populated with the given catalog.
func NewInMemoryDirectory(catalog map[string]domain.Activity) *InMemoryDirectory {
	dir := &InMemoryDirectory{
		activities: make(map[string]domain.Activity, len(catalog)),
	}
	for name, activity := range catalog {
		activity.Participants = slices.Clone(activity.Participants)
		dir.activities[name] = activity
	}
	return dir
}

// List implements domain.Directory. Returned activities are copies; callers
// cannot mutate the stored rosters through them.
func (d *InMemoryDirectory) List(ctx context.Context) (map[string]domain.Activity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]domain.Activity, len(d.activities))
	for name, activity := range d.activities {
		out[name] = cloneActivity(activity)
	}
	return out, nil
}

// Signup appends the email to the activity roster.
func (d *InMemoryDirectory) Signup(ctx context.Context, activity, email string) (domain.Activity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.activities[activity]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	if slices.Contains(current.Participants, email) {
		return domain.Activity{}, domain.ErrDuplicateSignup
	}
	if len(current.Participants) >= current.MaxParticipants {
		return domain.Activity{}, domain.ErrActivityFull
	}

	current.Participants = append(current.Participants, email)
	d.activities[activity] = current

	return cloneActivity(current), nil
}

// Unregister removes the email from the activity roster, preserving the
// order of the remaining participants.
func (d *InMemoryDirectory) Unregister(ctx context.Context, activity, email string) (domain.Activity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.activities[activity]
	if !ok {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	idx := slices.Index(current.Participants, email)
	if idx < 0 {
		return domain.Activity{}, domain.ErrNotRegistered
	}

	current.Participants = slices.Delete(current.Participants, idx, idx+1)
	d.activities[activity] = current

	return cloneActivity(current), nil
}

func cloneActivity(activity domain.Activity) domain.Activity {
	activity.Participants = slices.Clone(activity.Participants)
	return activity
}
