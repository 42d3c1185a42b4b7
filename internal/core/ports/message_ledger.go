package ports

import (
	"context"
)

// MessageLedger records which bus messages have already been processed, so
// redeliveries become no-ops. Lookups are advisory: callers treat a lookup
// failure as "not seen" and rely on the unique constraint behind MarkProcessed
// to catch the race.
type MessageLedger interface {
	// IsProcessed reports whether a message identifier has been recorded.
	IsProcessed(ctx context.Context, messageID string) (bool, error)

	// MarkProcessed records a message identifier together with the event type
	// it carried. Returns errs.DuplicateResourceError when the identifier was
	// already recorded.
	MarkProcessed(ctx context.Context, messageID string, eventType string) error
}
