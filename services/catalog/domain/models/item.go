package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is the core aggregate for the catalog bounded context.
// Stored values are treated as immutable: mutations go through WithDetails,
// which produces a replacement value, never through writes to a shared pointer.
type Item struct {
	ID        uuid.UUID
	Name      string
	Price     float64
	CreatedAt time.Time
}

// NewItem constructs an Item with a generated ID and current UTC timestamp.
func NewItem(name string, price float64) *Item {
	return &Item{
		ID:        uuid.New(),
		Name:      name,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
}

// WithDetails returns a replacement Item with the given name and price,
// carrying forward the original ID and CreatedAt. The receiver is not modified.
func (i *Item) WithDetails(name string, price float64) *Item {
	return &Item{
		ID:        i.ID,
		Name:      name,
		Price:     price,
		CreatedAt: i.CreatedAt,
	}
}
