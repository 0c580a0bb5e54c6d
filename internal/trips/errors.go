package trips

import "errors"

// ValidationError is a precondition violation detected locally; no network
// call was made. Remote rejections keep their own type (api.RemoteError) so
// the UI can tell the two apart.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a local precondition violation.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Common precondition failures.
var (
	ErrNotLoggedIn  = validationErr("you must be logged in")
	ErrNoActiveTrip = validationErr("no active trip to operate on")
)
