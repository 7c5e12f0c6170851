package usecase

import "context"

// Notifier abstracts notification delivery so use cases stay storage-agnostic.
// Implementations may buffer messages durably when primary storage is down.
type Notifier interface {
	Notify(ctx context.Context, accountID, message string) error
}
