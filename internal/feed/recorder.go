package feed

import "context"

// Recorder accepts roster events for asynchronous delivery. Implementations
// must not block the caller; the request path never waits on the feed.
type Recorder interface {
	Record(ctx context.Context, eventType, partitionKey string, payload any)
}

// NoopRecorder is a no-op implementation used when the feed is disabled.
type NoopRecorder struct{}

// Record performs no action.
func (NoopRecorder) Record(context.Context, string, string, any) {}
