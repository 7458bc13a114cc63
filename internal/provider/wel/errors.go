package wel

import "fmt"

// UpstreamError reports a non-success response from a WEL endpoint.
// Retryable by re-invocation; the backfill consumer relies on it to leave
// the queue message in place for redelivery.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("WEL %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}
