package handler

import (
	"net/http"
	"time"

	familydomain "familycart-go/internal/domain/family"
	"familycart-go/internal/transport/httpserver/middleware"
)

type joinFamilyRequest struct {
	FamilyCode  string  `json:"family_code" validate:"omitempty,len=6"`
	FamilyName  string  `json:"family_name" validate:"omitempty,max=255"`
	Description *string `json:"family_description" validate:"omitempty,max=2000"`
}

type membershipPayload struct {
	UUID       string    `json:"uuid"`
	ID         uint      `json:"id"`
	User       uint      `json:"user"`
	Username   string    `json:"username"`
	Family     uint      `json:"family"`
	FamilyName string    `json:"family_name"`
	FamilyCode string    `json:"family_code"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toMembershipPayload(detail familydomain.MembershipDetail) membershipPayload {
	return membershipPayload{
		UUID:       detail.UUID,
		ID:         detail.ID,
		User:       detail.UserID,
		Username:   detail.Username,
		Family:     detail.FamilyID,
		FamilyName: detail.FamilyName,
		FamilyCode: detail.FamilyCode,
		Role:       detail.Role,
		CreatedAt:  detail.CreatedAt,
		UpdatedAt:  detail.UpdatedAt,
	}
}

// JoinFamily joins by code when one is supplied, otherwise creates a new
// family from the name.
func (h *Handlers) JoinFamily(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondRequestError(w, err)
		return
	}

	detail, err := h.Families.JoinOrCreateFamily(r.Context(), caller.ID, familydomain.JoinOrCreateInput{
		Code:        req.FamilyCode,
		Name:        req.FamilyName,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "family joined", toMembershipPayload(*detail))
}

func (h *Handlers) ListMemberships(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeClientError(w, http.StatusUnauthorized, "authentication required", nil)
		return
	}

	details, err := h.Families.ListMemberships(r.Context(), caller.ID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	payload := make([]membershipPayload, 0, len(details))
	for _, detail := range details {
		payload = append(payload, toMembershipPayload(detail))
	}

	writeSuccess(w, http.StatusOK, "memberships", payload)
}
