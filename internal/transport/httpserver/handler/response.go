package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	familydomain "familycart-go/internal/domain/family"
	grocerydomain "familycart-go/internal/domain/grocery"
	userdomain "familycart-go/internal/domain/user"
	"familycart-go/pkg/logger"
)

// Every endpoint answers with the same envelope. The status flag is 1 for
// success, 0 for a client-caused failure and -1 for a server-side failure.
type envelope struct {
	Message string `json:"message"`
	Payload any    `json:"payload"`
	Status  int    `json:"status"`
}

const (
	statusSuccess      = 1
	statusClientError  = 0
	statusServerError  = -1
	genericServerError = "something went wrong"
)

func writeSuccess(w http.ResponseWriter, httpStatus int, message string, payload any) {
	writeJSON(w, httpStatus, envelope{Message: message, Payload: payload, Status: statusSuccess})
}

func writeClientError(w http.ResponseWriter, httpStatus int, message string, payload any) {
	writeJSON(w, httpStatus, envelope{Message: message, Payload: payload, Status: statusClientError})
}

func writeServerError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, envelope{
		Message: genericServerError,
		Payload: nil,
		Status:  statusServerError,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// respondError maps domain errors onto the envelope. Anything unrecognized
// is logged and reported as a generic 500 with no internal detail.
func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	var missing *grocerydomain.MissingFieldsError
	if errors.As(err, &missing) {
		writeClientError(w, http.StatusBadRequest, missing.Error(), map[string]any{
			"missing_fields": missing.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, userdomain.ErrUserNotFound):
		writeClientError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, userdomain.ErrInvalidInput):
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, userdomain.ErrEmailTaken),
		errors.Is(err, userdomain.ErrEmailTakenUnverified),
		errors.Is(err, userdomain.ErrOTPInvalid),
		errors.Is(err, userdomain.ErrNoPendingOTP):
		writeClientError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, userdomain.ErrUsernameTaken):
		writeClientError(w, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, familydomain.ErrCodeOrNameRequired):
		writeClientError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, familydomain.ErrAlreadyMember):
		writeClientError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, familydomain.ErrFamilyCodeNotFound),
		errors.Is(err, familydomain.ErrFamilyNotFound),
		errors.Is(err, familydomain.ErrMembershipNotFound):
		writeClientError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, familydomain.ErrCodeTaken),
		errors.Is(err, familydomain.ErrMembershipConflict):
		writeClientError(w, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, grocerydomain.ErrListNotFound),
		errors.Is(err, grocerydomain.ErrItemNotFound):
		writeClientError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, grocerydomain.ErrPermissionDenied):
		writeClientError(w, http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, grocerydomain.ErrInvalidQuantityType):
		writeClientError(w, http.StatusBadRequest, err.Error(), nil)

	default:
		log.InternalError("handler: unexpected error", err)
		writeServerError(w)
	}
}
