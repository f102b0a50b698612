package family

import "errors"

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrFamilyCodeNotFound   = errors.New("family code not found")
	ErrAlreadyMember        = errors.New("user already belongs to a family")
	ErrCodeOrNameRequired   = errors.New("either code or name is required")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrCodeGenerationFailed = errors.New("family code generation failed")

	// ErrCodeTaken and ErrMembershipConflict are raised by the storage
	// layer when a unique constraint fires. ErrCodeTaken is retried by the
	// create path; ErrMembershipConflict surfaces as ErrAlreadyMember.
	ErrCodeTaken          = errors.New("family code already taken")
	ErrMembershipConflict = errors.New("membership already exists")
)
