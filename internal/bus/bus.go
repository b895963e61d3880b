package bus

import "context"

// Publisher is the outbound pub-sub channel. Publishing is best-effort:
// callers treat errors as advisory and never roll back committed state
// because a publish failed.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload string) error
	Close() error
}
