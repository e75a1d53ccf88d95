package gateway

import "errors"

// ErrNotFound is returned when the remote service has no data for a request.
var ErrNotFound = errors.New("not found")

// ErrUnavailable is returned when a remote service cannot serve a request:
// it is unreachable, throttled, answered with an error or with no data.
var ErrUnavailable = errors.New("external service unavailable")
