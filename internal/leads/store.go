package leads

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence boundary for lead events. The table is
// append-only: rows are inserted, flagged (read, inactive), never removed.
type Store interface {
	Insert(ctx context.Context, event *Event) error
	ListMessages(ctx context.Context, unreadOnly bool) ([]EventView, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	// ListOpenHouseGroups returns active open-house sign-ins grouped by
	// address; ListEventGroups groups event sign-ins by event name.
	ListOpenHouseGroups(ctx context.Context) ([]SignInGroup, error)
	ListEventGroups(ctx context.Context) ([]SignInGroup, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
