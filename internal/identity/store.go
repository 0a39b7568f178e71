package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the persistence boundary for attribute lookup tables and contacts.
// Implementations return sentinel.ErrNotFound for missing rows and
// sentinel.ErrConflict when a contact insert loses a uniqueness race.
type Store interface {
	// ResolveAttribute returns the id for value in the kind's lookup table,
	// inserting the row if absent. Idempotent for repeated exact values.
	ResolveAttribute(ctx context.Context, kind AttributeKind, value string) (int64, error)

	FindContactByEmailAndPhone(ctx context.Context, emailID, phoneID int64) (*Contact, error)
	FindContactByEmailNoPhone(ctx context.Context, emailID int64) (*Contact, error)
	InsertContact(ctx context.Context, contact *Contact) error
	// TouchContact updates source attribution and updated_at on a matched
	// contact. Phone is deliberately left unchanged.
	TouchContact(ctx context.Context, id uuid.UUID, sourceID int64, updatedAt time.Time) error

	ListContacts(ctx context.Context) ([]ContactView, error)
	GetContact(ctx context.Context, id uuid.UUID) (*ContactView, error)
	SetContactActive(ctx context.Context, id uuid.UUID, active bool) error
}
