package handler

import (
	"net/http"
	"time"

	grocerydomain "familycart-go/internal/domain/grocery"
	"familycart-go/internal/transport/httpserver/middleware"
)

type createListRequest struct {
	Name             string  `json:"name" validate:"required,max=255"`
	FamilyMembership uint    `json:"family_membership" validate:"required"`
	Description      *string `json:"description" validate:"omitempty,max=2000"`
}

type updateListRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type listPayload struct {
	ID               uint      `json:"id"`
	UUID             string    `json:"uuid"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	FamilyMembership uint      `json:"family_membership"`
	CreatedBy        *uint     `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toListPayload(list *grocerydomain.GroceryList) listPayload {
	return listPayload{
		ID:               list.ID,
		UUID:             list.UUID,
		Name:             list.Name,
		Description:      list.Description,
		FamilyMembership: list.MembershipID,
		CreatedBy:        list.CreatedByID,
		CreatedAt:        list.CreatedAt,
		UpdatedAt:        list.UpdatedAt,
	}
}

func (h *Handlers) ListGroceryLists(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	lists, err := h.Grocery.ListLists(r.Context(), caller.ID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	payload := make([]listPayload, 0, len(lists))
	for i := range lists {
		payload = append(payload, toListPayload(&lists[i]))
	}

	writeSuccess(w, http.StatusOK, "grocery lists", payload)
}

func (h *Handlers) CreateGroceryList(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req createListRequest
	if err := decodeJSON(r, &req); err != nil {
		respondRequestError(w, err)
		return
	}

	list, err := h.Grocery.CreateList(r.Context(), caller.ID, grocerydomain.CreateListInput{
		MembershipID: req.FamilyMembership,
		Name:         req.Name,
		Description:  req.Description,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "grocery list created", toListPayload(list))
}

func (h *Handlers) GetGroceryList(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	listID, err := parseUintPathParam(r, "list_id")
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	list, err := h.Grocery.GetList(r.Context(), caller.ID, listID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "grocery list", toListPayload(list))
}

func (h *Handlers) UpdateGroceryList(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	listID, err := parseUintPathParam(r, "list_id")
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	var req updateListRequest
	if reqErr := decodeJSON(r, &req); reqErr != nil {
		respondRequestError(w, reqErr)
		return
	}

	list, err := h.Grocery.UpdateList(r.Context(), caller.ID, listID, grocerydomain.UpdateListInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "grocery list updated", toListPayload(list))
}

func (h *Handlers) DeleteGroceryList(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	listID, err := parseUintPathParam(r, "list_id")
	if err != nil {
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	if err := h.Grocery.DeleteList(r.Context(), caller.ID, listID); err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusOK, "grocery list deleted", nil)
}
