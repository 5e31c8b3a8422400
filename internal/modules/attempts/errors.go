package attempts

import "errors"

var (
	ErrValidation            = errors.New("validation error")
	ErrTestNotFound          = errors.New("test not found")
	ErrTestGone              = errors.New("test expired or closed")
	ErrAttemptNotFound       = errors.New("attempt not found")
	ErrForbidden             = errors.New("forbidden")
	ErrForbiddenAttemptsList = errors.New("only the test owner may list attempts")
	ErrAlreadySubmitted      = errors.New("attempt already submitted")
)
