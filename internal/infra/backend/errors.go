package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned for any non-2xx backend response.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend http %d: %s", e.Status, e.Body)
}

// IsAuthError reports whether err is a backend rejection of the cached
// credentials. Callers treat this as "not logged in", never as fatal.
func IsAuthError(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusForbidden
}
