package handlers

import (
	"net/http"

	"github.com/ghuser/catalog/pkg/errhttp"
	pkgvalidator "github.com/ghuser/catalog/pkg/validator"
	appsvcs "github.com/ghuser/catalog/services/catalog/application/services"
)

// PutItemHandler handles PUT /items/{id} requests.
type PutItemHandler struct {
	svc *appsvcs.Services
}

// NewPutItemHandler returns a PutItemHandler backed by the given services.
func NewPutItemHandler(svc *appsvcs.Services) *PutItemHandler {
	return &PutItemHandler{svc: svc}
}

// Execute replaces an item's name and price.
//
//	@Summary		Update item
//	@Description	Replaces the name and price of an existing item; ID and creation date are preserved
//	@Tags			items
//	@Accept			json
//	@Param			id		path	string				true	"Item ID (UUID)"
//	@Param			request	body	UpdateItemRequest	true	"Item update request"
//	@Success		204		"No Content"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/items/{id} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, ok := parseItemID(w, r)
	if !ok {
		return
	}

	req, ok := pkgvalidator.ValidateRequest[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	if err := h.svc.Item.Update(r.Context(), id, req.Name, req.Price); err != nil {
		errhttp.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
