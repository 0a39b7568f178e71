package deals

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence boundary for deals. Ownership checks belong in
// the service.
type Store interface {
	Insert(ctx context.Context, deal *Deal) error
	Get(ctx context.Context, id uuid.UUID) (*Deal, error)
	Update(ctx context.Context, deal *Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Deal, error)
}
