package handler

import (
	"net/http"
	"time"

	grocerydomain "familycart-go/internal/domain/grocery"
	"familycart-go/internal/transport/httpserver/middleware"
)

const defaultItemPageSize = 50

type createItemRequest struct {
	Name         string   `json:"name"`
	Quantity     *float64 `json:"quantity" validate:"omitempty,gt=0"`
	QuantityType string   `json:"quantity_type" validate:"omitempty,oneof=Gram Liter Count"`
	Note         *string  `json:"note" validate:"omitempty,max=2000"`
}

type replaceItemRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
	QuantityType string  `json:"quantity_type" validate:"required,oneof=Gram Liter Count"`
	Purchased    bool    `json:"purchased"`
	Note         *string `json:"note" validate:"omitempty,max=2000"`
}

type patchItemRequest struct {
	Name         *string  `json:"name" validate:"omitempty,max=255"`
	Quantity     *float64 `json:"quantity" validate:"omitempty,gt=0"`
	QuantityType *string  `json:"quantity_type" validate:"omitempty,oneof=Gram Liter Count"`
	Purchased    *bool    `json:"purchased"`
	Note         *string  `json:"note" validate:"omitempty,max=2000"`
}

type itemPayload struct {
	ID           uint      `json:"id"`
	UUID         string    `json:"uuid"`
	GroceryList  uint      `json:"grocery_list"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	QuantityType string    `json:"quantity_type"`
	Purchased    bool      `json:"purchased"`
	Note         *string   `json:"note"`
	CreatedBy    *uint     `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toItemPayload(item *grocerydomain.GroceryItem) itemPayload {
	return itemPayload{
		ID:           item.ID,
		UUID:         item.UUID,
		GroceryList:  item.ListID,
		Name:         item.Name,
		Quantity:     item.Quantity,
		QuantityType: string(item.QuantityType),
		Purchased:    item.Purchased,
		Note:         item.Note,
		CreatedBy:    item.CreatedByID,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

func (h *Handlers) ListGroceryItems(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	listID, err := parseUintQueryParam(r, "grocery_list_id")
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	limit, err := parseIntQueryParam(r, "limit", defaultItemPageSize)
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}
	offset, err := parseIntQueryParam(r, "offset", 0)
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	items, err := h.Grocery.ListItems(r.Context(), caller.ID, grocerydomain.ItemFilter{
		ListID: listID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	payload := make([]itemPayload, 0, len(items))
	for i := range items {
		payload = append(payload, toItemPayload(&items[i]))
	}

	writeSuccess(w, http.StatusOK, "grocery items", payload)
}

func (h *Handlers) CreateGroceryItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	listID, err := parseUintQueryParam(r, "grocery_list_id")
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	var req createItemRequest
	if reqErr := decodeJSON(r, &req); reqErr != nil {
		respondRequestError(w, reqErr)
		return
	}

	item, err := h.Grocery.CreateItem(r.Context(), caller.ID, grocerydomain.CreateItemInput{
		ListID:       listID,
		Name:         req.Name,
		Quantity:     req.Quantity,
		QuantityType: grocerydomain.QuantityType(req.QuantityType),
		Note:         req.Note,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "grocery item created", toItemPayload(item))
}

func (h *Handlers) ReplaceGroceryItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	itemID, err := parseUintPathParam(r, "item_id")
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	var req replaceItemRequest
	if reqErr := decodeJSON(r, &req); reqErr != nil {
		respondRequestError(w, reqErr)
		return
	}

	item, err := h.Grocery.ReplaceItem(r.Context(), caller.ID, itemID, grocerydomain.ReplaceItemInput{
		Name:         req.Name,
		Quantity:     req.Quantity,
		QuantityType: grocerydomain.QuantityType(req.QuantityType),
		Purchased:    req.Purchased,
		Note:         req.Note,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "grocery item updated", toItemPayload(item))
}

func (h *Handlers) PatchGroceryItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	itemID, err := parseUintPathParam(r, "item_id")
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	var req patchItemRequest
	if reqErr := decodeJSON(r, &req); reqErr != nil {
		respondRequestError(w, reqErr)
		return
	}

	var quantityType *grocerydomain.QuantityType
	if req.QuantityType != nil {
		converted := grocerydomain.QuantityType(*req.QuantityType)
		quantityType = &converted
	}

	item, err := h.Grocery.PatchItem(r.Context(), caller.ID, itemID, grocerydomain.PatchItemInput{
		Name:         req.Name,
		Quantity:     req.Quantity,
		QuantityType: quantityType,
		Purchased:    req.Purchased,
		Note:         req.Note,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "grocery item updated", toItemPayload(item))
}

func (h *Handlers) DeleteGroceryItem(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	itemID, err := parseUintPathParam(r, "item_id")
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	if err := h.Grocery.DeleteItem(r.Context(), caller.ID, itemID); err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "grocery item deleted", nil)
}
