package grocery

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrListNotFound        = errors.New("grocery list not found")
	ErrItemNotFound        = errors.New("grocery item not found")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrInvalidQuantityType = errors.New("invalid quantity type")
)

// MissingFieldsError names the required fields absent from a request.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}
