package pipeline

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is returned when token renewal fails terminally. The
// session is already cleared and the expiry hook has fired by the time a
// caller sees this, so callers should not surface it as a generic error.
var ErrSessionExpired = errors.New("authentication expired")

// GenericErrorMessage is shown when the backend did not supply a message.
const GenericErrorMessage = "An error occurred. Please try again."

// APIError is a non-2xx backend response normalized into a caller-facing
// error. Message is the backend-supplied text when present, otherwise the
// generic fallback.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}
