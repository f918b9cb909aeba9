package availability

import (
	"fmt"
	"strings"

	"slotfinder/services/upstream"
)

// ValidationError rejects a request before any upstream work is done
// (except for provider lookups, which need the roster).
type ValidationError struct {
	Message string
	Hint    []string
}

func (e *ValidationError) Error() string {
	if len(e.Hint) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (known: %s)", e.Message, strings.Join(e.Hint, ", "))
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrUpstreamAuth is returned when no upstream access token is available.
var ErrUpstreamAuth = upstream.ErrAuth
