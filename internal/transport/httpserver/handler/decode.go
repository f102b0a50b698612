package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError carries the 422 payload for a malformed or invalid body.
type requestError struct {
	message string
	fields  map[string]string
}

func (e *requestError) Error() string { return e.message }

func decodeJSON(r *http.Request, dst any) *requestError {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &requestError{message: "invalid request body"}
	}

	if err := validate.Struct(dst); err != nil {
		fields := make(map[string]string)
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			for _, fieldErr := range invalid {
				fields[fieldErr.Field()] = validationMessage(fieldErr)
			}
		}
		return &requestError{message: "validation failed", fields: fields}
	}
	return nil
}

func respondRequestError(w http.ResponseWriter, err *requestError) {
	var payload any
	if len(err.fields) > 0 {
		payload = err.fields
	}
	writeClientError(w, http.StatusUnprocessableEntity, err.message, payload)
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldErr.Param())
	default:
		return "is invalid"
	}
}
