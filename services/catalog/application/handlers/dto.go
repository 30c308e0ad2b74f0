package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// CreateItemRequest is the request body for POST /items.
type CreateItemRequest struct {
	Name  string  `json:"name"  validate:"required,max=255" example:"Widget"`
	Price float64 `json:"price" example:"9.99"`
} // @name CreateItemRequest

// UpdateItemRequest is the request body for PUT /items/{id}.
// The item ID comes from the route path, not the body.
type UpdateItemRequest struct {
	Name  string  `json:"name"  validate:"required,max=255" example:"Widget"`
	Price float64 `json:"price" example:"12.00"`
} // @name UpdateItemRequest

// ItemResponse is the wire representation of an item.
type ItemResponse struct {
	ID        uuid.UUID `json:"id"           example:"123e4567-e89b-12d3-a456-426614174000"`
	Name      string    `json:"name"         example:"Widget"`
	Price     float64   `json:"price"        example:"9.99"`
	CreatedAt time.Time `json:"created_date" example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"item not found"`
} // @name ErrorResponse

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.Price,
		CreatedAt: item.CreatedAt,
	}
}
