package api

import (
	"errors"
	"net/http"
)

// RemoteError is a rejection returned by the rental service. Message holds the
// server's human-readable text verbatim; callers surface it unmodified.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// IsRemote reports whether err is a service rejection (as opposed to a
// transport failure) and returns it when so.
func IsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsNotFound reports whether err is a service 404.
func IsNotFound(err error) bool {
	re, ok := IsRemote(err)
	return ok && re.StatusCode == http.StatusNotFound
}
