package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Implementations must be safe for concurrent use.
type ItemRepository interface {
	// ListAll retrieves every stored item in the store's natural order.
	ListAll(ctx context.Context) ([]*models.Item, error)

	// GetByID retrieves an item by ID. Returns ErrItemNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)

	// Create persists a new item.
	Create(ctx context.Context, item *models.Item) error

	// Update replaces the stored record with the same ID.
	Update(ctx context.Context, item *models.Item) error

	// Delete removes an item by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
